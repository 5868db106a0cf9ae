package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
)

type Catalog struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewCatalog(log *slog.Logger, pool *pgxpool.Pool) *Catalog {
	return &Catalog{log: log, pool: pool}
}

// PricesByID returns one product per matching id. Prices are read as text
// so the numeric column converts to cents without float rounding.
func (c *Catalog) PricesByID(ctx context.Context, ids []string) ([]domain.Product, error) {
	rows, err := c.pool.Query(ctx, `SELECT id::text, price::text FROM products WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var id, price string
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		cents, err := domain.PriceToCents(price)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		products = append(products, domain.Product{ID: id, PriceCents: cents})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
