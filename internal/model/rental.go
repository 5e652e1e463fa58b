package model

import "time"

// Contract statuses.  A contract is created pending, becomes active once
// its payment completes, and is swept to completed after its end date.
const (
	ContractPending   = "pending"
	ContractActive    = "active"
	ContractCompleted = "completed"
)

// Payment statuses and methods.  Card payments complete immediately; cash
// payments stay pending until a staff member confirms them.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"

	MethodCash = "cash"
	MethodCard = "card"
)

// RentalContract mirrors the `rental_contracts` table.  StartDate and
// EndDate are date-precision values (time component zero, UTC).  Two
// contracts for the same room must never overlap while both are in
// {pending, active}.
type RentalContract struct {
	ID             uint64    // rental_contracts.id
	CustomerID     uint64    // rental_contracts.customer_id
	RoomID         uint64    // rental_contracts.room_id
	StartDate      time.Time // rental_contracts.start_date
	EndDate        time.Time // rental_contracts.end_date (>= StartDate)
	TotalRentCents int64     // rental_contracts.total_rent_cents
	Status         string    // rental_contracts.status
	CreatedAt      time.Time // rental_contracts.created_at
	UpdatedAt      time.Time // rental_contracts.updated_at
}

// Payment mirrors the `payments` table.  The booking workflow creates at
// most one payment per contract.
type Payment struct {
	ID            uint64    // payments.id
	ContractID    uint64    // payments.rental_contract_id
	AmountCents   int64     // payments.amount_cents
	PaymentMethod string    // payments.payment_method (cash|card)
	Status        string    // payments.status
	PaymentDate   time.Time // payments.payment_date
}

// RentalDays returns the number of billable days for a contract covering
// [start, end].  Both boundary days are billed, so a same-day rental counts
// as one day.  Callers must pass date-precision values; the result is
// floor(|end-start| / 24h) + 1.
func RentalDays(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		d = -d
	}
	return int(d.Hours()/24) + 1
}

// TotalRent computes the contract price in cents from the daily rate.
func TotalRent(start, end time.Time, rentPriceCents int64) int64 {
	return int64(RentalDays(start, end)) * rentPriceCents
}

// Display statuses shown to customers on their rental list.  These are
// presentation values derived from contract + payment state, never stored.
const (
	DisplayAwaitingPayment = "Awaiting Payment"
	DisplayInProgress      = "In Progress"
	DisplayPending         = "Pending"
	DisplayCompleted       = "Completed"
	DisplayUnknown         = "Unknown"
)

// DisplayStatus derives the customer-facing status of a rental.  today,
// start and end must all be normalized to date precision before calling.
//
//	pending + cash            -> Awaiting Payment
//	active, today in [s,e]    -> In Progress
//	active, today before s    -> Pending
//	completed                 -> Completed
//	anything else             -> Unknown
func DisplayStatus(contractStatus, paymentMethod string, today, start, end time.Time) string {
	switch contractStatus {
	case ContractPending:
		if paymentMethod == MethodCash {
			return DisplayAwaitingPayment
		}
	case ContractActive:
		if !today.Before(start) && !today.After(end) {
			return DisplayInProgress
		}
		if today.Before(start) {
			return DisplayPending
		}
	case ContractCompleted:
		return DisplayCompleted
	}
	return DisplayUnknown
}

// DateOnly truncates t to date precision in UTC.  All contract date
// comparisons go through this so that "today" always means the calendar
// day, not an instant.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
