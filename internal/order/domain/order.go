package domain

import (
	"fmt"
	"time"

	checkout "github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "pending"
	StatusPaid     OrderStatus = "paid"
	StatusCanceled OrderStatus = "canceled"
)

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	SessionID  string      `json:"stripe_session_id"`
	Items      []OrderItem `json:"items"`
	TotalCents int64       `json:"total_cents"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
}

// CartRow is a persisted cart line. ItemPrice is the stored major-unit
// price as text; a zero Quantity counts as one.
type CartRow struct {
	ItemID    string
	ItemName  string
	ItemPrice string
	Quantity  int64
}

func ItemsFromCart(rows []CartRow) ([]OrderItem, error) {
	items := make([]OrderItem, 0, len(rows))
	for _, row := range rows {
		cents, err := checkout.PriceToCents(row.ItemPrice)
		if err != nil {
			return nil, fmt.Errorf("cart item %s: %w", row.ItemID, err)
		}
		qty := row.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, OrderItem{
			ProductID:  row.ItemID,
			Name:       row.ItemName,
			PriceCents: cents,
			Quantity:   qty,
		})
	}
	return items, nil
}

func NewOrder(id, userID, sessionID string, items []OrderItem) Order {
	var total int64
	for _, item := range items {
		total += item.Quantity * item.PriceCents
	}
	now := time.Now().UTC()
	return Order{
		ID:         id,
		UserID:     userID,
		SessionID:  sessionID,
		Items:      items,
		TotalCents: total,
		Status:     StatusPaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
