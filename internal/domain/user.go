package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Operator roles.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User represents an operator account
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and role.
type TokenVerifier interface {
	Verify(token string) (userID, role string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService defines operator sign-up and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name, role string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
