package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderTotalsResult agrega monto y cantidad de órdenes de un tipo en un rango.
type OrderTotalsResult struct {
	Total decimal.Decimal
	Count int64
}

// TopProductResult acumula unidades e ingresos vendidos de un producto.
type TopProductResult struct {
	ProductID   string
	ProductName string
	UnitsSold   int64
	Revenue     decimal.Decimal
}

// AnalyticsRepository define consultas de agregación de solo lectura para el
// dashboard. Las órdenes CANCELLED quedan excluidas de todos los agregados.
type AnalyticsRepository interface {
	OrderTotals(ctx context.Context, companyID, orderType string, from, to time.Time) (*OrderTotalsResult, error)
	LowStockCount(ctx context.Context, companyID string, threshold int64) (int64, error)
	TopProducts(ctx context.Context, companyID string, from, to time.Time, limit int) ([]TopProductResult, error)
	UnreadAlertCount(ctx context.Context, companyID string) (int64, error)
}
