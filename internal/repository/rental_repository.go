package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/room-rental-management/internal/model"
)

// RentalRepo owns the booking and payment workflow: contract creation with
// conflict detection, payment recording with status transitions, staff
// confirmation of cash payments, cancellation of abandoned checkouts and
// the lazy sweep of expired contracts.  Every multi-statement operation
// runs inside a single transaction; the conflict-check-then-insert window
// is serialized per room with a row lock on the rooms table.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// DB exposes the underlying handle for callers that need it.
func (r *RentalRepo) DB() *sql.DB { return r.db }

// CreateBooking creates a pending contract for [start, end] and returns its
// id and total rent.  start and end must be date-precision values with
// end >= start (the handler validates this before calling).
//
// The room row is locked FOR UPDATE before the overlap check so that two
// concurrent bookings for the same room serialize: the second transaction
// blocks on the lock and then sees the first one's contract in its conflict
// count.  Overlap uses inclusive bounds over contracts in {pending, active}.
// Any overlap returns ErrConflict and writes nothing.
func (r *RentalRepo) CreateBooking(ctx context.Context, customerID, roomID uint64, start, end time.Time) (uint64, int64, error) {
	if end.Before(start) {
		return 0, 0, ErrInvalidDateRange
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var priceCents int64
	err = tx.QueryRowContext(ctx,
		"SELECT rent_price_cents FROM rooms WHERE id = ? FOR UPDATE", roomID).Scan(&priceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrRoomNotFound
		}
		return 0, 0, err
	}

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM rental_contracts
		 WHERE room_id = ?
		   AND status IN (?, ?)
		   AND start_date <= ? AND end_date >= ?`,
		roomID, model.ContractActive, model.ContractPending, end, start).Scan(&conflicts)
	if err != nil {
		return 0, 0, err
	}
	if conflicts > 0 {
		return 0, 0, ErrConflict
	}

	total := model.TotalRent(start, end, priceCents)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO rental_contracts (customer_id, room_id, start_date, end_date, total_rent_cents, status)
		 VALUES (?,?,?,?,?,?)`,
		customerID, roomID, start, end, total, model.ContractPending)
	if err != nil {
		return 0, 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	committed = true
	return uint64(id), total, nil
}

// CheckoutDetail is the pending contract joined with its room, shown on
// the checkout page before payment.
type CheckoutDetail struct {
	ContractID     uint64    `json:"contract_id"`
	RoomID         uint64    `json:"room_id"`
	RoomNumber     string    `json:"room_number"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalRentCents int64     `json:"total_rent_cents"`
}

// Checkout loads a pending contract owned by the customer.  Contracts that
// were already paid, cancelled or belong to someone else surface as
// ErrContractNotFound; the handler tells the user the checkout is no
// longer valid.
func (r *RentalRepo) Checkout(ctx context.Context, contractID, customerID uint64) (*CheckoutDetail, error) {
	const q = `SELECT rc.id, rc.room_id, rm.room_number, rm.description,
	                  rc.start_date, rc.end_date, rc.total_rent_cents
	           FROM rental_contracts rc
	           JOIN rooms rm ON rm.id = rc.room_id
	           WHERE rc.id = ? AND rc.customer_id = ? AND rc.status = ?`
	var d CheckoutDetail
	err := r.db.QueryRowContext(ctx, q, contractID, customerID, model.ContractPending).
		Scan(&d.ContractID, &d.RoomID, &d.RoomNumber, &d.Description,
			&d.StartDate, &d.EndDate, &d.TotalRentCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &d, nil
}

// PaymentResult reports the state written by Pay or ConfirmCashPayment,
// with enough room/customer context for event publishing.
type PaymentResult struct {
	PaymentID      uint64
	ContractID     uint64
	CustomerID     uint64
	RoomID         uint64
	RoomNumber     string
	AmountCents    int64
	Method         string
	PaymentStatus  string
	ContractStatus string
}

// Pay records the payment for a pending contract.  Cash creates a pending
// payment and leaves the contract pending until staff confirms; card
// completes the payment and activates the contract immediately (no gateway
// is modeled).  Payment insert and contract update are one atomic unit.
// A contract that is missing or no longer pending returns ErrInvalidState.
func (r *RentalRepo) Pay(ctx context.Context, contractID uint64, method string, now time.Time) (*PaymentResult, error) {
	if method != model.MethodCash && method != model.MethodCard {
		return nil, errors.New("unknown payment method: " + method)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res := PaymentResult{ContractID: contractID, Method: method}
	err = tx.QueryRowContext(ctx,
		`SELECT rc.total_rent_cents, rc.customer_id, rc.room_id, rm.room_number
		 FROM rental_contracts rc
		 JOIN rooms rm ON rm.id = rc.room_id
		 WHERE rc.id = ? AND rc.status = ?
		 FOR UPDATE`,
		contractID, model.ContractPending).
		Scan(&res.AmountCents, &res.CustomerID, &res.RoomID, &res.RoomNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	res.PaymentStatus = model.PaymentPending
	res.ContractStatus = model.ContractPending
	if method == model.MethodCard {
		res.PaymentStatus = model.PaymentCompleted
		res.ContractStatus = model.ContractActive
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO payments (rental_contract_id, amount_cents, payment_method, status, payment_date)
		 VALUES (?,?,?,?,?)`,
		contractID, res.AmountCents, method, res.PaymentStatus, now.UTC())
	if err != nil {
		return nil, err
	}
	pid, err := ins.LastInsertId()
	if err != nil {
		return nil, err
	}
	res.PaymentID = uint64(pid)

	if _, err := tx.ExecContext(ctx,
		"UPDATE rental_contracts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		res.ContractStatus, contractID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &res, nil
}

// ConfirmCashPayment finalizes a pending cash payment: the payment becomes
// completed and its contract becomes active.  The update predicate guards
// on payment status, so a repeat call matches nothing and returns
// (nil, nil): idempotent by construction, not an error.
func (r *RentalRepo) ConfirmCashPayment(ctx context.Context, paymentID uint64) (*PaymentResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	upd, err := tx.ExecContext(ctx,
		"UPDATE payments SET status = ? WHERE id = ? AND status = ?",
		model.PaymentCompleted, paymentID, model.PaymentPending)
	if err != nil {
		return nil, err
	}
	if n, _ := upd.RowsAffected(); n == 0 {
		// Not pending (already confirmed, or unknown id): no-op.
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return nil, nil
	}

	res := PaymentResult{
		PaymentID:      paymentID,
		Method:         model.MethodCash,
		PaymentStatus:  model.PaymentCompleted,
		ContractStatus: model.ContractActive,
	}
	err = tx.QueryRowContext(ctx,
		`SELECT rc.id, rc.customer_id, rc.room_id, rm.room_number, p.amount_cents
		 FROM payments p
		 JOIN rental_contracts rc ON rc.id = p.rental_contract_id
		 JOIN rooms rm ON rm.id = rc.room_id
		 WHERE p.id = ?`,
		paymentID).
		Scan(&res.ContractID, &res.CustomerID, &res.RoomID, &res.RoomNumber, &res.AmountCents)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE rental_contracts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		model.ContractActive, res.ContractID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &res, nil
}

// CancelPending deletes a contract only if it belongs to the customer and
// is still pending.  A second call finds nothing to delete and reports
// false with no error, so abandoned-checkout cleanup is safe to retry.
func (r *RentalRepo) CancelPending(ctx context.Context, customerID, contractID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM rental_contracts WHERE id = ? AND customer_id = ? AND status = ?",
		contractID, customerID, model.ContractPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SweepExpired marks every active contract whose end date has passed as
// completed and returns the affected contract ids.  Select and update run
// in one transaction so the returned ids are exactly the rows flipped.
// The sweep is idempotent and is invoked lazily from inventory and staff
// reads; main may also run it on a ticker.
func (r *RentalRepo) SweepExpired(ctx context.Context, now time.Time) ([]uint64, error) {
	today := model.DateOnly(now)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM rental_contracts WHERE status = ? AND end_date < ? FOR UPDATE",
		model.ContractActive, today)
	if err != nil {
		return nil, err
	}
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return []uint64{}, nil
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE rental_contracts SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE status = ? AND end_date < ?`,
		model.ContractCompleted, model.ContractActive, today); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return ids, nil
}

// PendingCashPayment is one row of the staff confirmation queue.
type PendingCashPayment struct {
	PaymentID   uint64    `json:"payment_id"`
	PaymentDate time.Time `json:"payment_date"`
	AmountCents int64     `json:"amount_cents"`
	ContractID  uint64    `json:"contract_id"`
	RoomNumber  string    `json:"room_number"`
	FullName    string    `json:"full_name"`
}

// ListPendingCash returns all cash payments awaiting staff confirmation,
// newest first, joined with contract, room and customer name for display.
func (r *RentalRepo) ListPendingCash(ctx context.Context) ([]PendingCashPayment, error) {
	const q = `SELECT p.id, p.payment_date, p.amount_cents, rc.id, rm.room_number, u.full_name
	           FROM payments p
	           JOIN rental_contracts rc ON rc.id = p.rental_contract_id
	           JOIN rooms rm ON rm.id = rc.room_id
	           JOIN customers c ON c.id = rc.customer_id
	           JOIN users u ON u.id = c.user_id
	           WHERE p.status = ? AND p.payment_method = ?
	           ORDER BY p.payment_date DESC`
	rows, err := r.db.QueryContext(ctx, q, model.PaymentPending, model.MethodCash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PendingCashPayment, 0)
	for rows.Next() {
		var p PendingCashPayment
		if err := rows.Scan(&p.PaymentID, &p.PaymentDate, &p.AmountCents,
			&p.ContractID, &p.RoomNumber, &p.FullName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InProgressRental is one currently running rental on the staff overview.
type InProgressRental struct {
	ContractID     uint64    `json:"contract_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalRentCents int64     `json:"total_rent_cents"`
	RoomNumber     string    `json:"room_number"`
	FullName       string    `json:"full_name"`
}

// ListInProgress returns active contracts whose date range contains today,
// soonest-ending first.
func (r *RentalRepo) ListInProgress(ctx context.Context, now time.Time) ([]InProgressRental, error) {
	today := model.DateOnly(now)
	const q = `SELECT rc.id, rc.start_date, rc.end_date, rc.total_rent_cents, rm.room_number, u.full_name
	           FROM rental_contracts rc
	           JOIN rooms rm ON rm.id = rc.room_id
	           JOIN customers c ON c.id = rc.customer_id
	           JOIN users u ON u.id = c.user_id
	           WHERE rc.status = ? AND ? BETWEEN rc.start_date AND rc.end_date
	           ORDER BY rc.end_date ASC`
	rows, err := r.db.QueryContext(ctx, q, model.ContractActive, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]InProgressRental, 0)
	for rows.Next() {
		var ip InProgressRental
		if err := rows.Scan(&ip.ContractID, &ip.StartDate, &ip.EndDate,
			&ip.TotalRentCents, &ip.RoomNumber, &ip.FullName); err != nil {
			return nil, err
		}
		out = append(out, ip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerRental is one row on a customer's rental list, including the
// derived display status.
type CustomerRental struct {
	ContractID     uint64    `json:"contract_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalRentCents int64     `json:"total_rent_cents"`
	ContractStatus string    `json:"contract_status"`
	RoomNumber     string    `json:"room_number"`
	Description    string    `json:"description"`
	PaymentMethod  *string   `json:"payment_method"`
	PaymentStatus  *string   `json:"payment_status"`
	DisplayStatus  string    `json:"display_status"`
}

// ListByCustomer returns a customer's non-completed rentals ordered by
// start date, each annotated with its display status as of now.
func (r *RentalRepo) ListByCustomer(ctx context.Context, customerID uint64, now time.Time) ([]CustomerRental, error) {
	today := model.DateOnly(now)
	const q = `SELECT rc.id, rc.start_date, rc.end_date, rc.total_rent_cents, rc.status,
	                  rm.room_number, rm.description,
	                  p.payment_method, p.status
	           FROM rental_contracts rc
	           JOIN rooms rm ON rm.id = rc.room_id
	           LEFT JOIN payments p ON p.rental_contract_id = rc.id
	           WHERE rc.customer_id = ? AND rc.status != ?
	           ORDER BY rc.start_date ASC`
	rows, err := r.db.QueryContext(ctx, q, customerID, model.ContractCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CustomerRental, 0)
	for rows.Next() {
		var cr CustomerRental
		var method, status sql.NullString
		if err := rows.Scan(&cr.ContractID, &cr.StartDate, &cr.EndDate, &cr.TotalRentCents,
			&cr.ContractStatus, &cr.RoomNumber, &cr.Description, &method, &status); err != nil {
			return nil, err
		}
		if method.Valid {
			m := method.String
			cr.PaymentMethod = &m
		}
		if status.Valid {
			s := status.String
			cr.PaymentStatus = &s
		}
		pm := ""
		if cr.PaymentMethod != nil {
			pm = *cr.PaymentMethod
		}
		cr.DisplayStatus = model.DisplayStatus(cr.ContractStatus, pm, today,
			model.DateOnly(cr.StartDate), model.DateOnly(cr.EndDate))
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
