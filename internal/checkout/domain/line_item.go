package domain

import (
	"fmt"
	"strings"
)

const Currency = "usd"

// LineItem is one cart row as submitted by the checkout page. PriceCents
// is the unit price in minor currency units.
type LineItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
}

type SessionRequest struct {
	Items      []LineItem `json:"items"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
	// ClientReference ties the session to the signed-in shopper. It comes
	// from the bearer token, never from the body.
	ClientReference string `json:"-"`
}

// PricedLine is what the payment processor is asked to charge for.
type PricedLine struct {
	Name       string
	UnitAmount int64
	Quantity   int64
	Currency   string
}

func (r SessionRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range r.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("%w (item %d)", ErrMissingProductID, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: product %s has quantity %d", ErrInvalidQuantity, item.ProductID, item.Quantity)
		}
	}
	if r.SuccessURL == "" || r.CancelURL == "" {
		return ErrMissingRedirect
	}
	return nil
}

// ProductIDs returns the distinct product ids in submission order.
func (r SessionRequest) ProductIDs() []string {
	seen := make(map[string]struct{}, len(r.Items))
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
