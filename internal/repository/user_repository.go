package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/room-rental-management/internal/model"
	"github.com/iliyamo/room-rental-management/internal/utils"
)

// UserRepo persists users and their role-subordinate rows.  Every user owns
// exactly one row in customers, employees or admins depending on role; the
// two inserts always happen in a single transaction.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrUserExists is returned when the username or email is already taken.
var ErrUserExists = errors.New("username or email already exists")

// subordinateTable maps a role to the table holding its 1:1 subordinate row.
func subordinateTable(role string) (string, bool) {
	switch role {
	case model.RoleCustomer:
		return "customers", true
	case model.RoleEmployee:
		return "employees", true
	case model.RoleAdmin:
		return "admins", true
	}
	return "", false
}

// NewUser carries the validated registration fields into Create.  The
// password arrives in plain text and is hashed here so that no caller can
// accidentally store it unhashed.
type NewUser struct {
	Username    string
	Password    string
	Role        string
	FullName    string
	Email       string
	Phone       string
	Address     string
	DateOfBirth time.Time
}

// Create inserts the user row and its role-subordinate row in one
// transaction and returns the generated user ID.  Any failure rolls back
// the whole registration.  Duplicate-key failures are remapped to
// ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, cost int) (uint64, error) {
	table, ok := subordinateTable(nu.Role)
	if !ok {
		return 0, errors.New("unknown role: " + nu.Role)
	}
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return 0, err
	}
	username := strings.TrimSpace(nu.Username)
	email := strings.ToLower(strings.TrimSpace(nu.Email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, full_name, email, phone, address, date_of_birth)
		 VALUES (?,?,?,?,?,?,?,?)`,
		username, hash, nu.Role, nu.FullName, email, nu.Phone, nu.Address, nu.DateOfBirth)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+table+" (user_id) VALUES (?)", uint64(id)); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// GetByUsername fetches a user by its exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, full_name, email, phone, address, date_of_birth, created_at, updated_at
		 FROM users WHERE username = ? LIMIT 1`,
		strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.Email,
			&u.Phone, &u.Address, &u.DateOfBirth, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, full_name, email, phone, address, date_of_birth, created_at, updated_at
		 FROM users WHERE id = ? LIMIT 1`,
		id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.Email,
			&u.Phone, &u.Address, &u.DateOfBirth, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CustomerIDForUser resolves the customers.id owned by a user.  Rental
// contracts are keyed by customer id, so every customer-facing workflow
// call starts with this lookup.  Returns sql.ErrNoRows when the user has
// no customer row.
func (r *UserRepo) CustomerIDForUser(ctx context.Context, userID uint64) (uint64, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM customers WHERE user_id = ? LIMIT 1", userID).Scan(&id)
	return id, err
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry failure
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
