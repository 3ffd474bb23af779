package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
	"github.com/finapp/storefront/internal/core/service"
)

type memGuestStore struct {
	carts map[string]domain.CartSnapshot
}

func newMemGuestStore() *memGuestStore {
	return &memGuestStore{carts: make(map[string]domain.CartSnapshot)}
}

func (s *memGuestStore) Load(_ context.Context, sessionID string) (domain.CartSnapshot, error) {
	snap := make(domain.CartSnapshot, len(s.carts[sessionID]))
	copy(snap, s.carts[sessionID])
	return snap, nil
}

func (s *memGuestStore) Save(_ context.Context, sessionID string, snapshot domain.CartSnapshot) error {
	stored := make(domain.CartSnapshot, len(snapshot))
	copy(stored, snapshot)
	s.carts[sessionID] = stored
	return nil
}

func (s *memGuestStore) Delete(_ context.Context, sessionID string) error {
	delete(s.carts, sessionID)
	return nil
}

type fixedRemoteCart struct {
	doc *ports.RemoteCartDocument
	err error
}

func (s *fixedRemoteCart) Get(context.Context, string) (*ports.RemoteCartDocument, error) {
	return s.doc, s.err
}

func (s *fixedRemoteCart) AddItem(context.Context, string, string, int) (*ports.RemoteCartDocument, error) {
	return s.doc, s.err
}

func (s *fixedRemoteCart) UpdateItem(context.Context, string, string, int) (*ports.RemoteCartDocument, error) {
	return s.doc, s.err
}

func (s *fixedRemoteCart) RemoveItem(context.Context, string, string) (*ports.RemoteCartDocument, error) {
	return s.doc, s.err
}

func newCartTestHandler(remote ports.RemoteCartService) *CartHandler {
	registry := service.NewReconcilerRegistry(newMemGuestStore(), remote, service.ReconcilerConfig{
		AuthRetryDelay:    time.Millisecond,
		EmptyRefetchDelay: time.Millisecond,
	}, zerolog.Nop())
	return NewCartHandler(registry)
}

func cartRequest(e *echo.Echo, method, target, body, sessionID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var resp cartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCartHandler_Get_RequiresSessionHeader(t *testing.T) {
	e := echo.New()
	h := newCartTestHandler(&fixedRemoteCart{})

	c, _ := cartRequest(e, http.MethodGet, "/api/cart", "", "")
	err := h.Get(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session header, got %v", err)
	}
}

func TestCartHandler_GuestAddAndGet(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := newCartTestHandler(&fixedRemoteCart{})

	body := `{"product_id":"p1","name":"Widget","price":5,"quantity":2}`
	c, rec := cartRequest(e, http.MethodPost, "/api/cart/add", body, "sess-1")
	if err := h.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeCart(t, rec)
	if resp.ItemCount != 2 || resp.Total != 10 {
		t.Fatalf("unexpected cart: %+v", resp)
	}
	if len(resp.Lines) != 1 || resp.Lines[0].LineTotal != 10 {
		t.Fatalf("unexpected lines: %+v", resp.Lines)
	}

	c, rec = cartRequest(e, http.MethodGet, "/api/cart", "", "sess-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := decodeCart(t, rec); got.ItemCount != 2 {
		t.Fatalf("cart must survive across requests, got %+v", got)
	}
}

func TestCartHandler_Add_ValidatesPayload(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := newCartTestHandler(&fixedRemoteCart{})

	c, _ := cartRequest(e, http.MethodPost, "/api/cart/add", `{"quantity":1}`, "sess-1")
	err := h.Add(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product_id, got %v", err)
	}
}

func TestCartHandler_UpdateToZeroRemovesLine(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := newCartTestHandler(&fixedRemoteCart{})

	c, _ := cartRequest(e, http.MethodPost, "/api/cart/add", `{"product_id":"p1","price":5,"quantity":2}`, "sess-1")
	if err := h.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}

	c, rec := cartRequest(e, http.MethodPut, "/api/cart/update", `{"product_id":"p1","quantity":0}`, "sess-1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := decodeCart(t, rec); len(got.Lines) != 0 {
		t.Fatalf("expected line removed, got %+v", got.Lines)
	}
}

func TestCartHandler_RemoveAndClear(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := newCartTestHandler(&fixedRemoteCart{})

	for _, body := range []string{
		`{"product_id":"p1","price":5,"quantity":1}`,
		`{"product_id":"p2","price":3,"quantity":1}`,
	} {
		c, _ := cartRequest(e, http.MethodPost, "/api/cart/add", body, "sess-1")
		if err := h.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	c, rec := cartRequest(e, http.MethodDelete, "/api/cart/remove/p1", "", "sess-1")
	c.SetParamNames("product_id")
	c.SetParamValues("p1")
	if err := h.Remove(c); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := decodeCart(t, rec); len(got.Lines) != 1 || got.Lines[0].Product.ID != "p2" {
		t.Fatalf("expected only p2 left, got %+v", got.Lines)
	}

	c, rec = cartRequest(e, http.MethodDelete, "/api/cart", "", "sess-1")
	if err := h.Clear(c); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := decodeCart(t, rec); got.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestCartHandler_AuthedRequestLoadsRemoteCart(t *testing.T) {
	e := echo.New()
	remote := &fixedRemoteCart{doc: &ports.RemoteCartDocument{Items: []*ports.RemoteCartItem{
		{ProductID: "srv1", Name: "Server Item", Price: 9, Quantity: 1},
	}}}
	h := newCartTestHandler(remote)

	c, rec := cartRequest(e, http.MethodGet, "/api/cart", "", "sess-1")
	c.Set("user_id", "u1")
	c.Set("credential", "tok-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}

	resp := decodeCart(t, rec)
	if len(resp.Lines) != 1 || resp.Lines[0].Product.ID != "srv1" {
		t.Fatalf("expected server cart, got %+v", resp)
	}
}
