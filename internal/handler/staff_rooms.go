package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/model"
	"github.com/iliyamo/room-rental-management/internal/repository"
)

// StaffRoomHandler exposes room inventory management to employees and
// admins.
type StaffRoomHandler struct {
	Rooms   *repository.RoomRepo
	Rentals *repository.RentalRepo
}

func NewStaffRoomHandler(rooms *repository.RoomRepo, rentals *repository.RentalRepo) *StaffRoomHandler {
	return &StaffRoomHandler{Rooms: rooms, Rentals: rentals}
}

type furnitureAssignment struct {
	FurnitureID uint64 `json:"furniture_id"`
	Quantity    uint32 `json:"quantity"`
}

type roomReq struct {
	RoomNumber     string                `json:"room_number"`
	RoomType       string                `json:"room_type"`
	SizeSqm        *float64              `json:"size_sqm"`
	Description    string                `json:"description"`
	RentPriceCents int64                 `json:"rent_price_cents"`
	Furniture      []furnitureAssignment `json:"furniture"`
}

func (req *roomReq) validate() string {
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if req.RoomNumber == "" {
		return "room_number is required"
	}
	if _, ok := model.RoomTypes[req.RoomType]; !ok {
		return "invalid room_type"
	}
	if req.RentPriceCents <= 0 {
		return "rent_price_cents must be positive"
	}
	if req.SizeSqm != nil && *req.SizeSqm <= 0 {
		return "size_sqm must be positive when given"
	}
	for _, f := range req.Furniture {
		if f.FurnitureID == 0 || f.Quantity == 0 {
			return "each furniture entry needs furniture_id and a positive quantity"
		}
	}
	return ""
}

func (req *roomReq) toModel(id uint64) (*model.Room, []model.RoomFurniture) {
	rm := &model.Room{
		ID:             id,
		RoomNumber:     req.RoomNumber,
		RoomType:       req.RoomType,
		SizeSqm:        req.SizeSqm,
		Description:    req.Description,
		RentPriceCents: req.RentPriceCents,
		IsAvailable:    true,
	}
	items := make([]model.RoomFurniture, 0, len(req.Furniture))
	for _, f := range req.Furniture {
		items = append(items, model.RoomFurniture{
			RoomID:      id,
			FurnitureID: f.FurnitureID,
			Quantity:    f.Quantity,
		})
	}
	return rm, items
}

// List shows all rooms with furniture counts for the staff inventory view.
func (h *StaffRoomHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	if _, err := h.Rentals.SweepExpired(ctx, now); err != nil {
		log.Printf("staff rooms: sweep expired contracts failed: %v", err)
	}
	if err := h.Rooms.RefreshAvailability(ctx, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh availability failed"})
	}
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Get returns one room with its furniture assignments, used to populate
// the edit form.
func (h *StaffRoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	furniture, err := h.Rooms.FurnitureForRoom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load furniture failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room, "furniture": furniture})
}

// Create adds a room with an optional initial furniture set.
func (h *StaffRoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, items := req.toModel(0)
	if err := h.Rooms.Create(ctx, rm, items); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": rm.ID})
}

// Update edits a room; the submitted furniture set replaces the old one.
func (h *StaffRoomHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, items := req.toModel(id)
	if err := h.Rooms.Update(ctx, rm, items); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "message": "room updated"})
}

// Delete removes a room unless an active contract still references it.
func (h *StaffRoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has an active rental and cannot be deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
