package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	Create(ctx context.Context, order *Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status, confirmedBy string) error
	LatestPendingByIdentity(ctx context.Context, identity string) (*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, orderInput *Order) (int64, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO orders (identity, items_summary, total, address, status, confirmed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		orderInput.Identity,
		orderInput.ItemsSummary,
		orderInput.Total,
		orderInput.Address,
		string(orderInput.Status),
		orderInput.ConfirmedBy,
		now,
		now,
	).Scan(&id)
	if err != nil {
		log.Error().Err(err).Str("identity", orderInput.Identity).Msg("repository: failed to insert order")
		return 0, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	orderInput.ID = id
	orderInput.CreatedAt = now
	orderInput.UpdatedAt = now

	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, identity, items_summary, total, address, status, confirmed_by, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Identity,
		&o.ItemsSummary,
		&o.Total,
		&o.Address,
		&o.Status,
		&o.ConfirmedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}

	return &o, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status Status, confirmedBy string) error {
	// The delivered -> pending guard sits in the UPDATE itself, so a write
	// racing a concurrent delivery can never revert the row.
	query := `
		UPDATE orders
		SET status = $1, confirmed_by = $2, updated_at = $3
		WHERE id = $4 AND NOT (status = 'delivered' AND $1 = 'pending')
	`

	cmdTag, err := r.db.Exec(ctx, query,
		string(status),
		confirmedBy,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Str("new_status", string(status)).Msg("repository: failed to update order status")
		return fmt.Errorf("repository: failed to update order status %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			if errors.Is(getErr, ErrOrderNotFound) {
				log.Warn().Int64("order_id", id).Str("new_status", string(status)).Msg("repository: order not found for status update")
				return ErrOrderNotFound
			}
			return fmt.Errorf("repository: failed to check order %d after rejected update: %w", id, getErr)
		}

		log.Warn().Int64("order_id", id).Str("new_status", string(status)).Msg("repository: rejected delivered order revert")
		return ErrInvalidTransition
	}

	return nil
}

func (r *postgresRepository) LatestPendingByIdentity(ctx context.Context, identity string) (*Order, error) {
	query := `
		SELECT id, identity, items_summary, total, address, status, confirmed_by, created_at, updated_at
		FROM orders
		WHERE identity = $1 AND status = $2
		ORDER BY id DESC
		LIMIT 1
	`

	var o Order
	err := r.db.QueryRow(ctx, query, identity, string(StatusPending)).Scan(
		&o.ID,
		&o.Identity,
		&o.ItemsSummary,
		&o.Total,
		&o.Address,
		&o.Status,
		&o.ConfirmedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("repository: failed to select latest pending order for %s: %w", identity, err)
	}

	return &o, nil
}

func (r *postgresRepository) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	query := `
		SELECT id, identity, items_summary, total, address, status, confirmed_by, created_at, updated_at
		FROM orders
		WHERE status = $1
		ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders by status %s: %w", status, err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.Identity,
			&o.ItemsSummary,
			&o.Total,
			&o.Address,
			&o.Status,
			&o.ConfirmedBy,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order by status %s: %w", status, err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders by status %s: %w", status, err)
	}

	return orders, nil
}
