package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden. Si UnitPrice es cero se usa el precio
// del producto (venta: precio de venta; compra: costo actual).
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest datos para crear una venta o compra.
type CreateOrderRequest struct {
	Counterpart   string             `json:"counterpart"`
	Items         []OrderItemRequest `json:"items"`
	Discount      decimal.Decimal    `json:"discount"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"` // opcional; por defecto PENDING
	Notes         string             `json:"notes"`
}

// EditOrderRequest reemplaza las líneas completas y actualiza la cabecera.
type EditOrderRequest struct {
	Counterpart   string             `json:"counterpart"`
	Items         []OrderItemRequest `json:"items"`
	Discount      decimal.Decimal    `json:"discount"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes"`
}

// UpdateOrderStatusRequest transición de estado explícita.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"` // PENDING, COMPLETED, CANCELLED
}

// OrderItemResponse línea de la orden en respuestas.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse representación HTTP de una orden con sus líneas.
type OrderResponse struct {
	ID            string              `json:"id"`
	CompanyID     string              `json:"company_id"`
	Type          string              `json:"type"`
	Number        string              `json:"number"`
	Counterpart   string              `json:"counterpart"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod string              `json:"payment_method"`
	Notes         string              `json:"notes"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderListResponse listado paginado de órdenes (sin líneas).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
