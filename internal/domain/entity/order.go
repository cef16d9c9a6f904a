package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de orden: SALE descuenta stock (salida), PURCHASE lo incrementa (entrada).
const (
	OrderTypeSale     = "SALE"
	OrderTypePurchase = "PURCHASE"
)

// Estados de una orden. CANCELLED es terminal; PENDING/COMPLETED son
// informativos y no tienen efecto sobre el stock.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ValidOrderStatus verifica que el estado sea uno de los tres permitidos.
func ValidOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order representa la cabecera de una venta o compra.
// Number es el consecutivo visible por empresa y tipo ("000001", ...); no es
// la clave primaria y una orden anulada conserva su número.
// StockApplied es el eje de efecto de stock: true desde la creación, false
// tras revertir en la anulación. Es independiente del estado para que una
// transición de estado jamás vuelva a aplicar el efecto.
type Order struct {
	ID            string
	CompanyID     string
	Type          string // SALE | PURCHASE
	Number        string
	Counterpart   string // cliente (venta) o proveedor (compra)
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal // Subtotal - Discount
	PaymentMethod string
	Notes         string
	Status        string
	StockApplied  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StockSign devuelve el signo del efecto de stock al crear la orden:
// -1 para ventas (descuenta), +1 para compras (incrementa).
func (o *Order) StockSign() int64 {
	if o.Type == OrderTypeSale {
		return -1
	}
	return 1
}

// OrderItem representa una línea de una orden. Las líneas se reemplazan
// completas (borrar + recrear) al editar la orden.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64 // > 0
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal // Quantity * UnitPrice
}
