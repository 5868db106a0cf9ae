package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
)

func TestPricesByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/products", r.URL.Path)
		assert.Equal(t, "id,price", r.URL.Query().Get("select"))
		assert.Equal(t, `in.("p1","7")`, r.URL.Query().Get("id"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","price":20.00},{"id":7,"price":19.99}]`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL + "/", APIKey: "anon-key"}, srv.Client())
	require.NoError(t, err)

	products, err := c.PricesByID(context.Background(), []string{"p1", "7"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Product{{ID: "p1", PriceCents: 2000}, {ID: "7", PriceCents: 1999}}, products)
}

func TestPricesByIDErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid input syntax for type uuid"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL, APIKey: "k"}, srv.Client())
	require.NoError(t, err)

	_, err = c.PricesByID(context.Background(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase API error 400")
	assert.Contains(t, err.Error(), "invalid input syntax")
}

func TestNewClientConfig(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k"}, nil)
	assert.Error(t, err)
	_, err = NewClient(Config{URL: "https://x.supabase.co"}, nil)
	assert.Error(t, err)
	_, err = NewClient(Config{URL: "not a url", APIKey: "k"}, nil)
	assert.Error(t, err)
}

func TestInList(t *testing.T) {
	assert.Equal(t, `"a","b\"c"`, inList([]string{"a", `b"c`}))
}
