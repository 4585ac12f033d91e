package repository

import (
	"context"
	"errors"

	"github.com/campusdeals/campus-deals-api/internal/domain"
)

// Store-level sentinel errors surfaced by implementations. The service
// layer maps these onto the API error taxonomy.
var (
	// ErrDuplicateKey is returned when a unique constraint rejects a write
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrBootstrapTaken is returned when the single-bootstrap-row index
	// rejects a racing bootstrap insert
	ErrBootstrapTaken = errors.New("bootstrap admin already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; ErrDuplicateKey on a taken email
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID; nil when absent
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail retrieves a user by normalized email; nil when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update updates a user's mutable profile fields
	Update(ctx context.Context, user *domain.User) error
	// ExistsByEmail checks if a user exists with the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	// CreateBootstrap inserts the first admin. The store enforces that at
	// most one bootstrap row ever exists; ErrBootstrapTaken when another
	// bootstrap won the race, ErrDuplicateKey on a taken email.
	CreateBootstrap(ctx context.Context, admin *domain.Admin) error
	// GetByEmail retrieves an admin by normalized email; nil when absent
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	// Count returns the number of admin rows. Callers must re-query this
	// on every gated request rather than caching the result.
	Count(ctx context.Context) (int64, error)
	// List returns all admins
	List(ctx context.Context) ([]*domain.Admin, error)
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create persists a new order
	Create(ctx context.Context, order *domain.Order) error
	// ListByUserID returns a user's orders, newest first
	ListByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}
