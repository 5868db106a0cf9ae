package domain

// SessionSummary is the processor's view of a checkout session after the
// shopper has been redirected back.
type SessionSummary struct {
	ID              string
	PaymentStatus   string
	AmountTotal     int64
	Currency        string
	ClientReference string
}
