package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdeals/campus-deals-api/internal/domain"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

// Create persists a new order
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, listing_id, side, price_cents, quantity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.ListingID,
		order.Side,
		order.PriceCents,
		order.Quantity,
		order.Status,
		order.CreatedAt,
	)
	return err
}

// ListByUserID returns a user's orders, newest first
func (r *PostgresOrderRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, listing_id, side, price_cents, quantity, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.ListingID,
			&order.Side,
			&order.PriceCents,
			&order.Quantity,
			&order.Status,
			&order.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
