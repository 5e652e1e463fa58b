package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/model"
	"github.com/iliyamo/room-rental-management/internal/queue"
	"github.com/iliyamo/room-rental-management/internal/repository"
	publisher "github.com/iliyamo/room-rental-management/internal/service"
)

// CustomerRentingHandler drives the customer side of the rental workflow:
// booking, checkout, payment, the rental list and cancellation of
// unpaid contracts.
type CustomerRentingHandler struct {
	Users   *repository.UserRepo
	Rentals *repository.RentalRepo
}

func NewCustomerRentingHandler(users *repository.UserRepo, rentals *repository.RentalRepo) *CustomerRentingHandler {
	return &CustomerRentingHandler{Users: users, Rentals: rentals}
}

type bookReq struct {
	RoomID    uint64 `json:"room_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

type payReq struct {
	ContractID    uint64 `json:"contract_id"`
	PaymentMethod string `json:"payment_method"` // cash | card
}

type cancelReq struct {
	ContractID uint64 `json:"contract_id"`
}

// customerID resolves the caller's customers.id from the JWT user id.
func (h *CustomerRentingHandler) customerID(ctx context.Context, c echo.Context) (uint64, error) {
	uid, err := getUserID(c)
	if err != nil {
		return 0, err
	}
	return h.Users.CustomerIDForUser(ctx, uid)
}

// Book creates a pending contract for the requested room and date range.
// Dates are inclusive; total rent is (days between + 1) * daily price.
func (h *CustomerRentingHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, start_date and end_date are required"})
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must not be before start_date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customerID, err := h.customerID(ctx, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no customer profile for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve customer failed"})
	}

	contractID, total, err := h.Rentals.CreateBooking(ctx, customerID, req.RoomID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidDateRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must not be before start_date"})
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for the selected dates"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"contract_id":      contractID,
		"total_rent_cents": total,
		"status":           model.ContractPending,
	})
}

// Checkout shows the pending contract the customer is about to pay for.
func (h *CustomerRentingHandler) Checkout(c echo.Context) error {
	contractID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid contract id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customerID, err := h.customerID(ctx, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no customer profile for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve customer failed"})
	}

	detail, err := h.Rentals.Checkout(ctx, contractID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "checkout is no longer valid"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load checkout failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Pay records payment for a pending contract.  Cash leaves the contract
// pending until staff confirms; card activates it immediately, in which
// case a rental-activated event is published.
func (h *CustomerRentingHandler) Pay(c echo.Context) error {
	var req payReq
	if err := c.Bind(&req); err != nil || req.ContractID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contract_id and payment_method are required"})
	}
	if req.PaymentMethod != model.MethodCash && req.PaymentMethod != model.MethodCard {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be cash or card"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customerID, err := h.customerID(ctx, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no customer profile for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve customer failed"})
	}

	// Ownership check before touching payment state.
	if _, err := h.Rentals.Checkout(ctx, req.ContractID, customerID); err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contract not found or not payable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load contract failed"})
	}

	res, err := h.Rentals.Pay(ctx, req.ContractID, req.PaymentMethod, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "contract is not awaiting payment"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}

	if res.ContractStatus == model.ContractActive {
		publishActivated(res)
	}

	msg := "payment completed, rental is active"
	if res.PaymentStatus == model.PaymentPending {
		msg = "cash payment recorded, awaiting staff confirmation"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payment_id":      res.PaymentID,
		"contract_id":     res.ContractID,
		"payment_status":  res.PaymentStatus,
		"contract_status": res.ContractStatus,
		"message":         msg,
	})
}

// MyRentals lists the customer's non-completed rentals with display status.
func (h *CustomerRentingHandler) MyRentals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customerID, err := h.customerID(ctx, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no customer profile for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve customer failed"})
	}

	if _, err := h.Rentals.SweepExpired(ctx, time.Now()); err != nil {
		log.Printf("my-rentals: sweep expired contracts failed: %v", err)
	}

	rentals, err := h.Rentals.ListByCustomer(ctx, customerID, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rentals failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rentals": rentals})
}

// CancelPending deletes an unpaid contract the customer abandoned at
// checkout.  Repeat calls succeed with a no-op message.
func (h *CustomerRentingHandler) CancelPending(c echo.Context) error {
	var req cancelReq
	if err := c.Bind(&req); err != nil || req.ContractID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contract_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customerID, err := h.customerID(ctx, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no customer profile for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve customer failed"})
	}

	removed, err := h.Rentals.CancelPending(ctx, customerID, req.ContractID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if !removed {
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"message": "nothing to cancel: contract is not yours or no longer pending",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "pending booking cancelled",
	})
}

// publishActivated fires the rental.activated event in the background so
// broker hiccups never slow down or fail the HTTP response.
func publishActivated(res *repository.PaymentResult) {
	ev := queue.RentalActivatedEvent{
		ContractID:     res.ContractID,
		PaymentID:      res.PaymentID,
		CustomerID:     res.CustomerID,
		RoomID:         res.RoomID,
		RoomNumber:     res.RoomNumber,
		PaymentMethod:  res.Method,
		TotalRentCents: res.AmountCents,
		ActivatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = publisher.PublishRentalActivated(ctx, ev)
	}()
}
