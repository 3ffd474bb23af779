package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
	"github.com/finapp/storefront/internal/core/service"
)

// CartHandler handles HTTP requests for cart operations. Every request
// first delivers the current auth state to the session's reconciler; the
// reconciler's identity guards make repeated deliveries of the same state
// no-ops, so this is safe to do unconditionally.
type CartHandler struct {
	registry *service.ReconcilerRegistry
}

func NewCartHandler(registry *service.ReconcilerRegistry) *CartHandler {
	return &CartHandler{registry: registry}
}

// reconciler resolves the session's reconciler and syncs it with the
// request's auth state.
func (h *CartHandler) reconciler(c echo.Context) (*service.CartReconciler, error) {
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return nil, err
	}

	rec := h.registry.Get(sessionID)
	rec.HandleAuthChange(c.Request().Context(), ports.AuthChangeEvent{
		SessionID: sessionID,
		State:     ctxAuthState(c),
	})
	return rec, nil
}

// Get handles GET /api/cart.
//
// @Summary      Get the current cart snapshot
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Storefront session id"
// @Success      200           {object}  cartResponse
// @Failure      400           {object}  errorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	rec, err := h.reconciler(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(rec))
}

// Add handles POST /api/cart/add.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string              true  "Storefront session id"
// @Param        body          body      addCartLineRequest  true  "Product to add"
// @Success      200           {object}  cartResponse
// @Failure      400           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /api/cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addCartLineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.reconciler(c)
	if err != nil {
		return err
	}

	product := domain.ProductRef{
		ID:       req.ProductID,
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if err := rec.AddLine(c.Request().Context(), product, req.Quantity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(rec))
}

// Update handles PUT /api/cart/update.
//
// @Summary      Set the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string              true  "Storefront session id"
// @Param        body          body      setQuantityRequest  true  "New quantity (0 removes the line)"
// @Success      200           {object}  cartResponse
// @Failure      400           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /api/cart/update [put]
func (h *CartHandler) Update(c echo.Context) error {
	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.reconciler(c)
	if err != nil {
		return err
	}
	if err := rec.SetQuantity(c.Request().Context(), req.ProductID, req.Quantity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(rec))
}

// Remove handles DELETE /api/cart/remove/:product_id.
//
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Storefront session id"
// @Param        product_id    path      string  true  "Product id"
// @Success      200           {object}  cartResponse
// @Failure      400           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /api/cart/remove/{product_id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	rec, err := h.reconciler(c)
	if err != nil {
		return err
	}
	if err := rec.RemoveLine(c.Request().Context(), c.Param("product_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(rec))
}

// Clear handles DELETE /api/cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Storefront session id"
// @Success      200           {object}  cartResponse
// @Failure      400           {object}  errorResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	rec, err := h.reconciler(c)
	if err != nil {
		return err
	}
	if err := rec.Clear(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(rec))
}

// Refresh handles POST /api/cart/refresh: force a re-load from the current
// source of truth.
//
// @Summary      Re-load the cart from its source of truth
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Storefront session id"
// @Success      200           {object}  cartResponse
// @Failure      400           {object}  errorResponse
// @Failure      502           {object}  errorResponse
// @Router       /api/cart/refresh [post]
func (h *CartHandler) Refresh(c echo.Context) error {
	rec, err := h.reconciler(c)
	if err != nil {
		return err
	}
	if err := rec.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(rec))
}

func toCartResponse(rec *service.CartReconciler) cartResponse {
	snap := rec.Snapshot()
	lines := make([]cartLineResponse, 0, len(snap))
	for _, line := range snap {
		lines = append(lines, cartLineResponse{
			Product: cartProductResponse{
				ID:       line.Product.ID,
				Name:     line.Product.Name,
				Price:    line.Product.Price,
				Category: line.Product.Category,
				ImageURL: line.Product.ImageURL,
			},
			Quantity:  line.Quantity,
			LineTotal: line.Product.Price * float64(line.Quantity),
		})
	}
	return cartResponse{
		Lines:     lines,
		ItemCount: snap.ItemCount(),
		Total:     snap.Total(),
	}
}
