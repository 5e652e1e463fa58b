package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-rental-management/internal/model"
)

// FurnitureRepo provides CRUD over the furniture catalog.  Names are
// unique and items cannot be deleted while any room still references them.
type FurnitureRepo struct {
	db *sql.DB
}

// NewFurnitureRepo constructs a FurnitureRepo with the given DB handle.
func NewFurnitureRepo(db *sql.DB) *FurnitureRepo {
	return &FurnitureRepo{db: db}
}

// List returns the whole catalog newest first.
func (r *FurnitureRepo) List(ctx context.Context) ([]model.Furniture, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM furniture ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Furniture, 0)
	for rows.Next() {
		var f model.Furniture
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns one furniture item or ErrFurnitureNotFound.
func (r *FurnitureRepo) GetByID(ctx context.Context, id uint64) (*model.Furniture, error) {
	var f model.Furniture
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM furniture WHERE id = ?", id).
		Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFurnitureNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Create inserts a catalog item.  Duplicate names map to ErrConflict.  On
// success the item's ID is populated.
func (r *FurnitureRepo) Create(ctx context.Context, f *model.Furniture) error {
	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM furniture WHERE name = ? LIMIT 1", f.Name).Scan(&existing)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO furniture (name, description) VALUES (?,?)", f.Name, f.Description)
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
	f.ID = uint64(id)
	return nil
}

// Update edits a catalog item.  Name uniqueness excludes the item itself.
// Returns ErrFurnitureNotFound when the id does not exist.
func (r *FurnitureRepo) Update(ctx context.Context, f *model.Furniture) error {
	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM furniture WHERE name = ? AND id != ? LIMIT 1", f.Name, f.ID).Scan(&existing)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE furniture SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		f.Name, f.Description, f.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var id uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM furniture WHERE id = ?", f.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFurnitureNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a catalog item.  Items still assigned to any room are
// protected: the delete is rejected with ErrConflict.
func (r *FurnitureRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM room_furniture WHERE furniture_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM furniture WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFurnitureNotFound
	}
	return nil
}
