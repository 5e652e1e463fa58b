package model

import "time"

// Role names as stored in users.role.  A user's role is fixed at
// registration time; there is no update path for it.
const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  These
// structs are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	Role         – one of RoleCustomer, RoleEmployee, RoleAdmin.
//	FullName     – display name.
//	Email        – unique email address.
//	Phone        – contact phone number.
//	Address      – postal address.
//	DateOfBirth  – date of birth (date precision).
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	FullName     string    // users.full_name
	Email        string    // users.email
	Phone        string    // users.phone
	Address      string    // users.address
	DateOfBirth  time.Time // users.date_of_birth
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Customer is the role-subordinate row owned by a user with the customer
// role.  Rental contracts reference customers.id, not users.id.
type Customer struct {
	ID        uint64    // customers.id
	UserID    uint64    // customers.user_id (1:1 with users)
	CreatedAt time.Time // customers.created_at
	UpdatedAt time.Time // customers.updated_at
}

// Employee is the role-subordinate row for staff members.
type Employee struct {
	ID        uint64    // employees.id
	UserID    uint64    // employees.user_id (1:1 with users)
	CreatedAt time.Time // employees.created_at
	UpdatedAt time.Time // employees.updated_at
}

// Admin is the role-subordinate row for administrators.
type Admin struct {
	ID        uint64    // admins.id
	UserID    uint64    // admins.user_id (1:1 with users)
	CreatedAt time.Time // admins.created_at
	UpdatedAt time.Time // admins.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
