package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() SessionRequest {
	return SessionRequest{
		Items:      []LineItem{{ProductID: "p1", Name: "Home Jersey", PriceCents: 2000, Quantity: 2}},
		SuccessURL: "http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:3000/cart",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	cases := []struct {
		name   string
		mutate func(*SessionRequest)
		want   error
	}{
		{"empty items", func(r *SessionRequest) { r.Items = nil }, ErrEmptyItems},
		{"blank product id", func(r *SessionRequest) { r.Items[0].ProductID = "  " }, ErrMissingProductID},
		{"zero quantity", func(r *SessionRequest) { r.Items[0].Quantity = 0 }, ErrInvalidQuantity},
		{"no success url", func(r *SessionRequest) { r.SuccessURL = "" }, ErrMissingRedirect},
		{"no cancel url", func(r *SessionRequest) { r.CancelURL = "" }, ErrMissingRedirect},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRequest()
			tc.mutate(&r)
			assert.ErrorIs(t, r.Validate(), tc.want)
		})
	}
}

func TestProductIDsDistinct(t *testing.T) {
	r := SessionRequest{Items: []LineItem{{ProductID: "b"}, {ProductID: "a"}, {ProductID: "b"}}}
	assert.Equal(t, []string{"b", "a"}, r.ProductIDs())
}

func TestPriceToCents(t *testing.T) {
	ok := map[string]int64{
		"20":     2000,
		"20.00":  2000,
		"19.99":  1999,
		" 0.5 ":  50,
		"129.90": 12990,
	}
	for in, want := range ok {
		got, err := PriceToCents(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "19.999", "1e30"} {
		_, err := PriceToCents(in)
		assert.Error(t, err, in)
	}
}
