package repository

import (
	"context"
	"database/sql"
	"errors"

	"time"

	"github.com/iliyamo/room-rental-management/internal/model"
)

// RoomRepo provides CRUD over rooms and their furniture assignments.  The
// furniture set of a room is replaced wholesale on every edit: all existing
// room_furniture rows are deleted and the submitted set is re-inserted
// inside the same transaction.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions that
// span repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomColumns = `id, room_number, room_type, size_sqm, description, rent_price_cents, is_available, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }, rm *model.Room) error {
	var size sql.NullFloat64
	if err := row.Scan(&rm.ID, &rm.RoomNumber, &rm.RoomType, &size, &rm.Description,
		&rm.RentPriceCents, &rm.IsAvailable, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return err
	}
	if size.Valid {
		v := size.Float64
		rm.SizeSqm = &v
	}
	return nil
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound when no
// row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := scanRoom(r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id), &rm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// RoomWithCount is a room plus the number of distinct furniture items
// assigned to it.  Used by the staff inventory listing.
type RoomWithCount struct {
	model.Room
	FurnitureCount int
}

// List returns all rooms newest first with their furniture counts.
// Callers are expected to refresh availability before listing so that
// is_available reflects current contract state.
func (r *RoomRepo) List(ctx context.Context) ([]RoomWithCount, error) {
	const q = `SELECT r.id, r.room_number, r.room_type, r.size_sqm, r.description,
	                  r.rent_price_cents, r.is_available, r.created_at, r.updated_at,
	                  COUNT(rf.furniture_id)
	           FROM rooms r
	           LEFT JOIN room_furniture rf ON rf.room_id = r.id
	           GROUP BY r.id, r.room_number, r.room_type, r.size_sqm, r.description,
	                    r.rent_price_cents, r.is_available, r.created_at, r.updated_at
	           ORDER BY r.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoomWithCount, 0)
	for rows.Next() {
		var rc RoomWithCount
		var size sql.NullFloat64
		if err := rows.Scan(&rc.ID, &rc.RoomNumber, &rc.RoomType, &size, &rc.Description,
			&rc.RentPriceCents, &rc.IsAvailable, &rc.CreatedAt, &rc.UpdatedAt,
			&rc.FurnitureCount); err != nil {
			return nil, err
		}
		if size.Valid {
			v := size.Float64
			rc.SizeSqm = &v
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RoomListing is the customer-facing browse row: room fields plus an
// aggregated "Desk (2), Chair (4)" furniture summary.
type RoomListing struct {
	ID             uint64  `json:"id"`
	RoomNumber     string  `json:"room_number"`
	RoomType       string  `json:"room_type"`
	Description    string  `json:"description"`
	RentPriceCents int64   `json:"rent_price_cents"`
	IsAvailable    bool    `json:"is_available"`
	FurnitureList  *string `json:"furniture_list"`
}

// Browse returns all rooms ordered by room number with their furniture
// aggregated into a single display string per room.
func (r *RoomRepo) Browse(ctx context.Context) ([]RoomListing, error) {
	const q = `SELECT r.id, r.room_number, r.room_type, r.description, r.rent_price_cents, r.is_available,
	                  (SELECT GROUP_CONCAT(CONCAT(f.name, ' (', rf.quantity, ')') SEPARATOR ', ')
	                   FROM room_furniture rf
	                   JOIN furniture f ON f.id = rf.furniture_id
	                   WHERE rf.room_id = r.id)
	           FROM rooms r
	           ORDER BY r.room_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoomListing, 0)
	for rows.Next() {
		var l RoomListing
		var furn sql.NullString
		if err := rows.Scan(&l.ID, &l.RoomNumber, &l.RoomType, &l.Description,
			&l.RentPriceCents, &l.IsAvailable, &furn); err != nil {
			return nil, err
		}
		if furn.Valid {
			s := furn.String
			l.FurnitureList = &s
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RoomFurnitureItem is one furniture row assigned to a room, joined with
// its catalog name for display.
type RoomFurnitureItem struct {
	FurnitureID uint64 `json:"furniture_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    uint32 `json:"quantity"`
}

// FurnitureForRoom lists the furniture assigned to one room ordered by name.
func (r *RoomRepo) FurnitureForRoom(ctx context.Context, roomID uint64) ([]RoomFurnitureItem, error) {
	const q = `SELECT f.id, f.name, f.description, rf.quantity
	           FROM room_furniture rf
	           JOIN furniture f ON f.id = rf.furniture_id
	           WHERE rf.room_id = ?
	           ORDER BY f.name`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoomFurnitureItem, 0)
	for rows.Next() {
		var it RoomFurnitureItem
		if err := rows.Scan(&it.FurnitureID, &it.Name, &it.Description, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// insertAssignments writes the furniture set for a room inside tx.  Rows
// with zero quantity are skipped rather than rejected; validation of the
// submitted set happens in the handler.
func insertAssignments(ctx context.Context, tx *sql.Tx, roomID uint64, items []model.RoomFurniture) error {
	for _, it := range items {
		if it.FurnitureID == 0 || it.Quantity == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO room_furniture (room_id, furniture_id, quantity) VALUES (?,?,?)",
			roomID, it.FurnitureID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a room and its furniture assignments in one transaction.
// The room number must be unique; a pre-check and the unique index both
// map violations to ErrConflict.  On success the room's ID is populated.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room, items []model.RoomFurniture) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM rooms WHERE room_number = ? LIMIT 1", rm.RoomNumber).Scan(&existing)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO rooms (room_number, room_type, size_sqm, description, rent_price_cents, is_available)
		 VALUES (?,?,?,?,?,?)`,
		rm.RoomNumber, rm.RoomType, nullFloat(rm.SizeSqm), rm.Description, rm.RentPriceCents, rm.IsAvailable)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	if err := insertAssignments(ctx, tx, rm.ID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update edits a room and replaces its entire furniture assignment set.
// Room number uniqueness is enforced excluding the room itself.  Returns
// ErrRoomNotFound when the id does not exist.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room, items []model.RoomFurniture) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM rooms WHERE room_number = ? AND id != ? LIMIT 1",
		rm.RoomNumber, rm.ID).Scan(&existing)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE rooms
		 SET room_number = ?, room_type = ?, size_sqm = ?, description = ?,
		     rent_price_cents = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rm.RoomNumber, rm.RoomType, nullFloat(rm.SizeSqm), rm.Description,
		rm.RentPriceCents, rm.IsAvailable, rm.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also 0 for no-op updates, so confirm existence.
		var id uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id = ?", rm.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
	}

	// Replace the whole assignment set: delete everything, insert the new set.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM room_furniture WHERE room_id = ?", rm.ID); err != nil {
		return err
	}
	if err := insertAssignments(ctx, tx, rm.ID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a room together with its furniture assignments and
// historical contracts.  Deletion is blocked with ErrConflict while any
// active contract references the room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var active int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rental_contracts WHERE room_id = ? AND status = ?",
		id, model.ContractActive).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM room_furniture WHERE room_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM rental_contracts WHERE room_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RefreshAvailability recomputes rooms.is_available from contract state:
// every room defaults to available, then rooms whose active contract covers
// today are marked unavailable.  is_available is derived state only; the
// contract table is the source of truth.  Callers should sweep expired
// contracts first (RentalRepo.SweepExpired) so finished contracts do not
// hold rooms unavailable.
func (r *RoomRepo) RefreshAvailability(ctx context.Context, now time.Time) error {
	today := model.DateOnly(now)
	if _, err := r.db.ExecContext(ctx, "UPDATE rooms SET is_available = 1"); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET is_available = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id IN (
		     SELECT DISTINCT room_id FROM rental_contracts
		     WHERE status = ? AND ? BETWEEN start_date AND end_date
		 )`,
		model.ContractActive, today)
	return err
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
