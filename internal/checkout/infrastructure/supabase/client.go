// Package supabase reads product prices through the hosted data store's
// PostgREST endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
)

const maxErrorBody = 32 << 10

type Config struct {
	URL    string
	APIKey string
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("SUPABASE_URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("SUPABASE_ANON_KEY is required")
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("SUPABASE_URL %q is not a valid URL", cfg.URL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

type productRow struct {
	ID    json.RawMessage `json:"id"`
	Price json.Number     `json:"price"`
}

func (c *Client) PricesByID(ctx context.Context, ids []string) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("select", "id,price")
	q.Set("id", "in.("+inList(ids)+")")

	var rows []productRow
	if err := c.get(ctx, "products", q, &rows); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		id := rowID(row.ID)
		cents, err := domain.PriceToCents(row.Price.String())
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		products = append(products, domain.Product{ID: id, PriceCents: cents})
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, table string, q url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("supabase API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// inList quotes ids for a PostgREST in.() filter.
func inList(ids []string) string {
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id)
		quoted = append(quoted, `"`+escaped+`"`)
	}
	return strings.Join(quoted, ",")
}

// rowID accepts both text and integer primary keys.
func rowID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
