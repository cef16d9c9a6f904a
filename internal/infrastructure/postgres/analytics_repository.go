package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de agregación de solo lectura para el dashboard.
// Las órdenes CANCELLED quedan excluidas de todos los agregados.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// OrderTotals agrega monto y cantidad de órdenes de un tipo en un rango.
func (r *AnalyticsRepo) OrderTotals(ctx context.Context, companyID, orderType string, from, to time.Time) (*repository.OrderTotalsResult, error) {
	query := `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE company_id = $1 AND type = $2 AND status <> $3
			AND created_at >= $4 AND created_at < $5`
	var res repository.OrderTotalsResult
	err := r.q.QueryRow(ctx, query, companyID, orderType, entity.OrderStatusCancelled, from, to).
		Scan(&res.Total, &res.Count)
	if err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}
	return &res, nil
}

// LowStockCount cuenta productos activos con stock <= threshold.
func (r *AnalyticsRepo) LowStockCount(ctx context.Context, companyID string, threshold int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE company_id = $1 AND active = true AND stock <= $2`,
		companyID, threshold,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("low stock count: %w", err)
	}
	return n, nil
}

// TopProducts lista los productos más vendidos por unidades en el rango.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	query := `
		SELECT p.id, p.name, COALESCE(SUM(oi.quantity), 0), COALESCE(SUM(oi.subtotal), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.company_id = $1 AND o.type = $2 AND o.status <> $3
			AND o.created_at >= $4 AND o.created_at < $5
		GROUP BY p.id, p.name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $6`
	rows, err := r.q.Query(ctx, query,
		companyID, entity.OrderTypeSale, entity.OrderStatusCancelled, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var list []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// UnreadAlertCount cuenta alertas no leídas de la empresa.
func (r *AnalyticsRepo) UnreadAlertCount(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM alerts WHERE company_id = $1 AND read = false`,
		companyID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("unread alert count: %w", err)
	}
	return n, nil
}
