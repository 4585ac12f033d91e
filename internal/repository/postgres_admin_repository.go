package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdeals/campus-deals-api/internal/domain"
)

// bootstrapIndex is the partial unique index that admits at most one
// bootstrap-created admin row (see migrations/001_init.sql)
const bootstrapIndex = "admins_single_bootstrap_idx"

// PostgresAdminRepository implements AdminRepository using PostgreSQL
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAdminRepository creates a new PostgresAdminRepository
func NewPostgresAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

// CreateBootstrap inserts the first admin. Two racing bootstraps both pass
// the service-level emptiness check; the partial unique index rejects the
// loser here regardless.
func (r *PostgresAdminRepository) CreateBootstrap(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, name, phone, department, via_bootstrap, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		admin.Phone,
		admin.Department,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == bootstrapIndex {
				return ErrBootstrapTaken
			}
			return ErrDuplicateKey
		}
		return err
	}
	admin.ViaBootstrap = true
	return nil
}

// GetByEmail retrieves an admin by normalized email
func (r *PostgresAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, password_hash, name, phone, department, via_bootstrap, created_at, updated_at
		FROM admins
		WHERE email = $1
	`
	admin := &domain.Admin{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Name,
		&admin.Phone,
		&admin.Department,
		&admin.ViaBootstrap,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

// Count returns the number of admin rows
func (r *PostgresAdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

// List returns all admins
func (r *PostgresAdminRepository) List(ctx context.Context) ([]*domain.Admin, error) {
	query := `
		SELECT id, email, password_hash, name, phone, department, via_bootstrap, created_at, updated_at
		FROM admins
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []*domain.Admin
	for rows.Next() {
		admin := &domain.Admin{}
		if err := rows.Scan(
			&admin.ID,
			&admin.Email,
			&admin.PasswordHash,
			&admin.Name,
			&admin.Phone,
			&admin.Department,
			&admin.ViaBootstrap,
			&admin.CreatedAt,
			&admin.UpdatedAt,
		); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}
