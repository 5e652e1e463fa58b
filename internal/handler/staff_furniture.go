package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/model"
	"github.com/iliyamo/room-rental-management/internal/repository"
)

// StaffFurnitureHandler manages the furniture catalog.
type StaffFurnitureHandler struct {
	Furniture *repository.FurnitureRepo
}

func NewStaffFurnitureHandler(f *repository.FurnitureRepo) *StaffFurnitureHandler {
	return &StaffFurnitureHandler{Furniture: f}
}

type furnitureReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns the whole catalog.
func (h *StaffFurnitureHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Furniture.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list furniture failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"furniture": items})
}

// Get returns one catalog item.
func (h *StaffFurnitureHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid furniture id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item, err := h.Furniture.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFurnitureNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "furniture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load furniture failed"})
	}
	return c.JSON(http.StatusOK, item)
}

// Create adds a catalog item with a unique name.
func (h *StaffFurnitureHandler) Create(c echo.Context) error {
	var req furnitureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item := &model.Furniture{Name: req.Name, Description: req.Description}
	if err := h.Furniture.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "furniture name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create furniture failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": item.ID})
}

// Update edits a catalog item.
func (h *StaffFurnitureHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid furniture id"})
	}
	var req furnitureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item := &model.Furniture{ID: id, Name: req.Name, Description: req.Description}
	if err := h.Furniture.Update(ctx, item); err != nil {
		switch {
		case errors.Is(err, repository.ErrFurnitureNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "furniture not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "furniture name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update furniture failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "message": "furniture updated"})
}

// Delete removes a catalog item unless a room still uses it.
func (h *StaffFurnitureHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid furniture id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Furniture.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrFurnitureNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "furniture not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "furniture is assigned to a room and cannot be deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete furniture failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
