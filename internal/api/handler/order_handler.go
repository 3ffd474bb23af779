package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
	"github.com/finapp/storefront/internal/core/service"
)

// OrderHandler handles HTTP requests for checkout and order history.
type OrderHandler struct {
	service  ports.OrderService
	registry *service.ReconcilerRegistry
}

func NewOrderHandler(orderService ports.OrderService, registry *service.ReconcilerRegistry) *OrderHandler {
	return &OrderHandler{service: orderService, registry: registry}
}

// Checkout handles POST /api/orders: it freezes the session's current cart
// snapshot into an order and clears the cart on success.
//
// @Summary      Place an order from the current cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Session-ID  header    string           true  "Storefront session id"
// @Param        body          body      checkoutRequest  true  "Shipping details"
// @Success      201           {object}  orderResponse
// @Failure      400           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	sessionID, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	rec := h.registry.Get(sessionID)
	rec.HandleAuthChange(ctx, ports.AuthChangeEvent{SessionID: sessionID, State: ctxAuthState(c)})

	order, err := h.service.Checkout(ctx, ports.CheckoutInput{
		UserID:   userID,
		Snapshot: rec.Snapshot(),
		Shipping: ports.ShippingInput{
			FullName: req.Shipping.FullName,
			Street:   req.Shipping.Street,
			City:     req.Shipping.City,
			ZipCode:  req.Shipping.ZipCode,
			Country:  req.Shipping.Country,
		},
	})
	if err != nil {
		return err
	}

	_ = rec.Clear(ctx)

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// List handles GET /api/orders, the caller's order history.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), ports.GetOrderInput{
		OrderID: c.Param("id"),
		Role:    role,
		UserID:  userID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles PUT /api/admin/orders/:id/status.
//
// @Summary      Update order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Order id"
// @Param        body  body      updateOrderStatusRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.UpdateOrderStatus(c.Request().Context(), ports.UpdateOrderStatusInput{
		OrderID: c.Param("id"),
		Status:  req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(o *domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		})
	}
	return orderResponse{
		ID:     o.ID,
		Status: string(o.Status),
		Lines:  lines,
		Total:  o.Total,
		Shipping: shippingResponse{
			FullName: o.Shipping.FullName,
			Street:   o.Shipping.Street,
			City:     o.Shipping.City,
			ZipCode:  o.Shipping.ZipCode,
			Country:  o.Shipping.Country,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
