package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/repository"
)

// StaffRentingHandler serves the staff side of the rental workflow: the
// cash confirmation queue, confirming payments, and the overview of
// rentals currently in progress.
type StaffRentingHandler struct {
	Rentals *repository.RentalRepo
}

func NewStaffRentingHandler(rentals *repository.RentalRepo) *StaffRentingHandler {
	return &StaffRentingHandler{Rentals: rentals}
}

// PendingCash lists cash payments waiting for staff confirmation.
func (h *StaffRentingHandler) PendingCash(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	payments, err := h.Rentals.ListPendingCash(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list pending payments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}

// ConfirmPayment marks a pending cash payment as completed and activates
// its contract.  Confirming twice is harmless: the second call reports
// that nothing was pending.
func (h *StaffRentingHandler) ConfirmPayment(c echo.Context) error {
	paymentID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Rentals.ConfirmCashPayment(ctx, paymentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm payment failed"})
	}
	if res == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"confirmed": false,
			"message":   "payment was not pending; nothing changed",
		})
	}

	publishActivated(res)

	return c.JSON(http.StatusOK, echo.Map{
		"confirmed":       true,
		"payment_id":      res.PaymentID,
		"contract_id":     res.ContractID,
		"contract_status": res.ContractStatus,
		"message":         "payment confirmed, rental is active",
	})
}

// InProgress lists active rentals whose date range contains today.  The
// expired-contract sweep runs first so finished rentals never linger in
// the list.
func (h *StaffRentingHandler) InProgress(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	if _, err := h.Rentals.SweepExpired(ctx, now); err != nil {
		log.Printf("in-progress: sweep expired contracts failed: %v", err)
	}

	rentals, err := h.Rentals.ListInProgress(ctx, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rentals failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rentals": rentals})
}
