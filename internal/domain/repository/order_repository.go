package repository

import (
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateItem(item *entity.OrderItem) error
	GetByID(id string) (*entity.Order, error)
	// GetByIDForUpdate obtiene la cabecera bloqueando su fila (SELECT FOR
	// UPDATE). Solo tiene sentido dentro de una transacción: serializa las
	// anulaciones concurrentes de la misma orden.
	GetByIDForUpdate(id string) (*entity.Order, error)
	GetItems(orderID string) ([]*entity.OrderItem, error)
	ListByCompany(companyID, orderType string, limit, offset int) ([]*entity.Order, error)
	// UpdateHeader actualiza contraparte, totales, pago, notas y estado.
	UpdateHeader(order *entity.Order) error
	// UpdateStatus cambia estado y el flag de efecto de stock en una sola
	// sentencia (lo usa la anulación dentro de su transacción).
	UpdateStatus(id, status string, stockApplied bool) error
	// UpdateStatusOnly cambia solo el estado de una orden vigente; jamás
	// escribe el flag de efecto de stock. Devuelve false si la orden ya estaba
	// CANCELLED (o no existe): la transición informativa nunca resucita una
	// anulación ni pisa su reversión con una lectura obsoleta.
	UpdateStatusOnly(id, status string) (bool, error)
	// DeleteItems borra todas las líneas de la orden (la edición las reemplaza completas).
	DeleteItems(orderID string) error
	Delete(id string) error
	// HasItemsForProduct indica si alguna línea de cualquier orden referencia el producto.
	HasItemsForProduct(productID string) (bool, error)
	// ListCompletedSales lista ventas COMPLETED de la empresa en un rango de fechas
	// (consumo de solo lectura del asesor de precios).
	ListCompletedSales(companyID string, from, to time.Time) ([]*entity.Order, error)
}
