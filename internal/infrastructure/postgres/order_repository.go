package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, company_id, type, number, counterpart, subtotal, discount, total, payment_method, notes, status, stock_applied, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.Type, &o.Number, &o.Counterpart,
		&o.Subtotal, &o.Discount, &o.Total, &o.PaymentMethod, &o.Notes,
		&o.Status, &o.StockApplied, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste la cabecera de una orden.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.Type, order.Number, order.Counterpart,
		order.Subtotal, order.Discount, order.Total, order.PaymentMethod, order.Notes,
		order.Status, order.StockApplied, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la orden.
func (r *OrderRepo) CreateItem(item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una orden por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByIDForUpdate obtiene la cabecera bloqueando la fila. Requiere un Querier
// transaccional: el lock serializa anulaciones concurrentes de la misma orden.
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// GetItems obtiene las líneas de una orden.
func (r *OrderRepo) GetItems(orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByCompany lista órdenes de un tipo por empresa, más recientes primero.
func (r *OrderRepo) ListByCompany(companyID, orderType string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders WHERE company_id = $1 AND type = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, orderType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateHeader actualiza contraparte, totales, pago, notas y estado de la
// cabecera. No toca type, number ni stock_applied.
func (r *OrderRepo) UpdateHeader(order *entity.Order) error {
	query := `
		UPDATE orders SET counterpart = $2, subtotal = $3, discount = $4, total = $5,
			payment_method = $6, notes = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Counterpart, order.Subtotal, order.Discount, order.Total,
		order.PaymentMethod, order.Notes, order.Status, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order header: %w", err)
	}
	return nil
}

// UpdateStatus cambia estado y flag de efecto de stock en una sola sentencia,
// así la anulación deja ambos campos consistentes dentro de su tx.
func (r *OrderRepo) UpdateStatus(id, status string, stockApplied bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, stock_applied = $3, updated_at = $4 WHERE id = $1`,
		id, status, stockApplied, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateStatusOnly cambia solo el estado, condicional a que la orden siga
// vigente. Cero filas significa que una anulación ganó la carrera: el estado
// CANCELLED no se resucita y stock_applied nunca se toca por esta vía.
func (r *OrderRepo) UpdateStatusOnly(id, status string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1 AND status <> $4`,
		id, status, time.Now(), entity.OrderStatusCancelled,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteItems borra todas las líneas de la orden (la edición las reemplaza completas).
func (r *OrderRepo) DeleteItems(orderID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return nil
}

// Delete elimina la cabecera de la orden.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// HasItemsForProduct indica si alguna línea de cualquier orden referencia el producto.
func (r *OrderRepo) HasItemsForProduct(productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product references: %w", err)
	}
	return exists, nil
}

// ListCompletedSales lista ventas COMPLETED de la empresa en un rango de fechas.
func (r *OrderRepo) ListCompletedSales(companyID string, from, to time.Time) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE company_id = $1 AND type = $2 AND status = $3 AND created_at >= $4 AND created_at < $5
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query,
		companyID, entity.OrderTypeSale, entity.OrderStatusCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("list completed sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
