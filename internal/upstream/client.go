package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minhvule/teacart/pkg/config"
	pkgerrors "github.com/minhvule/teacart/pkg/errors"
	"github.com/minhvule/teacart/pkg/logger"
	"github.com/sethvargo/go-retry"
)

type authTokenKey struct{}

// WithAuthToken stores the caller's bearer token for forwarding upstream.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, authTokenKey{}, token)
}

func authTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if token, ok := ctx.Value(authTokenKey{}).(string); ok {
		return token
	}
	return ""
}

// Client talks to the storefront backend's cart REST API.
type Client struct {
	baseURL      string
	http         *http.Client
	fetchRetries int
	fetchBackoff time.Duration
	logg         *logger.Logger
}

// New builds a cart API client from configuration.
func New(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}
	return &Client{
		baseURL:      base,
		http:         &http.Client{Timeout: cfg.RequestTimeout},
		fetchRetries: cfg.FetchRetries,
		fetchBackoff: cfg.FetchBackoff,
		logg:         logg,
	}, nil
}

// Ping checks upstream reachability for the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cart", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	drainAndClose(resp)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return nil
}

// FetchCart returns the persisted cart lines for a store. A 404 means the
// cart does not exist yet and is reported as an empty list, not an error.
// Only this call is retried; mutations are never replayed automatically.
func (c *Client) FetchCart(ctx context.Context, storeID string) ([]CartItem, error) {
	endpoint := fmt.Sprintf("%s/cart?storeId=%s", c.baseURL, url.QueryEscape(storeID))

	backoff := retry.NewConstant(c.fetchBackoff)
	if c.fetchBackoff <= 0 {
		backoff = retry.NewConstant(time.Millisecond)
	}

	var items []CartItem
	err := retry.Do(ctx, retry.WithMaxRetries(uint64(max(c.fetchRetries, 0)), backoff), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		c.decorate(ctx, req)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer drainAndClose(resp)

		switch {
		case resp.StatusCode == http.StatusNotFound:
			items = nil
			return nil
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("upstream returned %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}

		var envelope cartEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return fmt.Errorf("decoding cart payload: %w", err)
		}
		items = envelope.Items
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart")
	}
	return items, nil
}

// AddItem persists a new line (or lets the backend fold it into an existing one).
func (c *Client) AddItem(ctx context.Context, input AddItemInput) error {
	return c.mutate(ctx, http.MethodPost, "/cart/add", input, "add cart item")
}

// UpdateQuantity changes the quantity of the identified line.
func (c *Client) UpdateQuantity(ctx context.Context, storeID, itemID string, quantity int) error {
	payload := quantityPayload{StoreID: storeID, ItemID: itemID, Quantity: quantity}
	return c.mutate(ctx, http.MethodPut, "/cart/quantity", payload, "update cart quantity")
}

// UpdateItem replaces the full configuration of the identified line.
func (c *Client) UpdateItem(ctx context.Context, storeID, itemID string, cfg ItemConfig) error {
	payload := updatePayload{StoreID: storeID, ItemID: itemID, NewConfig: cfg}
	return c.mutate(ctx, http.MethodPut, "/cart/update", payload, "update cart item")
}

// RemoveItem deletes the identified line.
func (c *Client) RemoveItem(ctx context.Context, storeID, itemID string) error {
	payload := itemRefPayload{StoreID: storeID, ItemID: itemID}
	return c.mutate(ctx, http.MethodDelete, "/cart/item", payload, "remove cart item")
}

// ClearCart empties the store's cart.
func (c *Client) ClearCart(ctx context.Context, storeID string) error {
	return c.mutate(ctx, http.MethodDelete, "/cart/clear", storePayload{StoreID: storeID}, "clear cart")
}

func (c *Client) mutate(ctx context.Context, method, path string, payload any, op string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	defer drainAndClose(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeDependency, op).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	return nil
}

func (c *Client) decorate(ctx context.Context, req *http.Request) {
	if token := authTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
}

func drainAndClose(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
