package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/repository"
)

// PublicRoomHandler serves the customer-facing room listings.  Browsing
// triggers the lazy maintenance pass first: expired contracts are swept
// and room availability is recomputed, so what the customer sees is
// consistent with contract state without any background job.
type PublicRoomHandler struct {
	Rooms   *repository.RoomRepo
	Rentals *repository.RentalRepo
}

func NewPublicRoomHandler(rooms *repository.RoomRepo, rentals *repository.RentalRepo) *PublicRoomHandler {
	return &PublicRoomHandler{Rooms: rooms, Rentals: rentals}
}

// refresh runs the sweep and the availability recompute.  Failures are
// logged but do not block the listing; stale availability beats a 500.
func (h *PublicRoomHandler) refresh(ctx context.Context, now time.Time) {
	if ids, err := h.Rentals.SweepExpired(ctx, now); err != nil {
		log.Printf("rooms: sweep expired contracts failed: %v", err)
	} else if len(ids) > 0 {
		log.Printf("rooms: swept %d expired contract(s)", len(ids))
	}
	if err := h.Rooms.RefreshAvailability(ctx, now); err != nil {
		log.Printf("rooms: refresh availability failed: %v", err)
	}
}

// Browse lists every room with aggregated furniture and current availability.
func (h *PublicRoomHandler) Browse(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	h.refresh(ctx, time.Now())

	rooms, err := h.Rooms.Browse(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Detail returns one room with its full furniture breakdown.
func (h *PublicRoomHandler) Detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	h.refresh(ctx, time.Now())

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
	return c.JSON(http.StatusOK, echo.Map{
		"room":      room,
		"furniture": furniture,
	})
}
