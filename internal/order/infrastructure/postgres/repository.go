package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/storefront-checkout/internal/order/domain"
)

const uniqueViolation = "23505"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) CartRows(ctx context.Context, userID string) ([]domain.CartRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT item_id::text, item_name, item_price::text, COALESCE(quantity, 1)
		FROM cart
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CartRow
	for rows.Next() {
		var row domain.CartRow
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.ItemPrice, &row.Quantity); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) PlaceWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, headers map[string]string, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, user_id, stripe_session_id, items, total_cents, status, created_at, updated_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.UserID, o.SessionID, o.Items, o.TotalCents, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyPlaced
		}
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status) VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		"order", o.ID, eventType, payload, headers, traceparent)
	if err != nil {
		return err
	}

	ct, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id = $1`, o.UserID)
	if err != nil {
		return err
	}
	r.log.Debug("cart cleared", "user_id", o.UserID, "rows", ct.RowsAffected())

	return tx.Commit(ctx)
}

const orderColumns = `id, user_id, stripe_session_id, items, total_cents, status, created_at, updated_at`

func (r *Repository) BySession(ctx context.Context, userID, sessionID string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 AND stripe_session_id=$2`, userID, sessionID)
	return scanOrder(row)
}

func (r *Repository) Get(ctx context.Context, userID, id string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 AND id=$2`, userID, id)
	return scanOrder(row)
}

func (r *Repository) List(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.SessionID, &o.Items, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
