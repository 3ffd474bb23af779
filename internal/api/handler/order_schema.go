package handler

import "time"

type shippingRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Street   string `json:"street"    validate:"required"`
	City     string `json:"city"      validate:"required"`
	ZipCode  string `json:"zip_code"  validate:"required"`
	Country  string `json:"country"   validate:"required"`
}

type checkoutRequest struct {
	Shipping shippingRequest `json:"shipping" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid shipped delivered cancelled"`
}

type orderLineResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type shippingResponse struct {
	FullName string `json:"full_name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"`
	Lines     []orderLineResponse `json:"lines"`
	Total     float64             `json:"total"`
	Shipping  shippingResponse    `json:"shipping"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
