// Package upstream implements the client for the remote cart service, the
// external REST API that owns the authenticated user's cart.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
)

// CartClient talks to the remote cart service. Timeouts are left to the
// injected http.Client; the reconciler does not impose its own.
type CartClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewCartClient creates a CartClient for baseURL (e.g.
// "https://cart.internal/api/cart"). A nil client falls back to
// http.DefaultClient.
func NewCartClient(baseURL string, client *http.Client, log zerolog.Logger) *CartClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &CartClient{baseURL: baseURL, http: client, log: log}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// apiEnvelope is the optional response wrapper the cart service emits:
// {"result": "SUCCESS", "data": {...}}. Bare documents are also accepted.
type apiEnvelope struct {
	Result string          `json:"result"`
	Data   json.RawMessage `json:"data"`
}

func (c *CartClient) Get(ctx context.Context, credential string) (*ports.RemoteCartDocument, error) {
	return c.do(ctx, http.MethodGet, c.baseURL, credential, nil)
}

func (c *CartClient) AddItem(ctx context.Context, credential, productID string, quantity int) (*ports.RemoteCartDocument, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+"/add", credential, &cartItemRequest{ProductID: productID, Quantity: quantity})
}

func (c *CartClient) UpdateItem(ctx context.Context, credential, productID string, quantity int) (*ports.RemoteCartDocument, error) {
	return c.do(ctx, http.MethodPut, c.baseURL+"/update", credential, &cartItemRequest{ProductID: productID, Quantity: quantity})
}

func (c *CartClient) RemoveItem(ctx context.Context, credential, productID string) (*ports.RemoteCartDocument, error) {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/remove/"+url.PathEscape(productID), credential, nil)
}

func (c *CartClient) do(ctx context.Context, method, endpoint, credential string, body *cartItemRequest) (*ports.RemoteCartDocument, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cart request encode: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("cart request build: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCartUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnauthorized, res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", domain.ErrCartUnavailable, res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCartUnavailable, err)
	}

	return c.decode(raw), nil
}

// decode unwraps the optional ApiResponse envelope and parses the cart
// document. Malformed bodies degrade to an empty document; the snapshot
// transformation downstream guarantees a well-formed result either way.
func (c *CartClient) decode(raw []byte) *ports.RemoteCartDocument {
	payload := raw
	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Result == "SUCCESS" && len(env.Data) > 0 {
		payload = env.Data
	}

	var doc ports.RemoteCartDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		c.log.Warn().Err(err).Msg("malformed cart response body")
		return &ports.RemoteCartDocument{}
	}
	return &doc
}
