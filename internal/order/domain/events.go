package domain

const EventOrderPlaced = "OrderPlaced"

type OrderPlaced struct {
	OrderID    string      `json:"order_id"`
	UserID     string      `json:"user_id"`
	SessionID  string      `json:"stripe_session_id"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderItem `json:"items"`
}
