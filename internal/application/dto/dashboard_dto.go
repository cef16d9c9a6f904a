package dto

import "github.com/shopspring/decimal"

// TopProductDTO producto más vendido en el período.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DashboardResponse resumen operativo del mes en curso.
type DashboardResponse struct {
	SalesTotal     decimal.Decimal `json:"sales_total"`
	SalesCount     int64           `json:"sales_count"`
	PurchasesTotal decimal.Decimal `json:"purchases_total"`
	PurchasesCount int64           `json:"purchases_count"`
	LowStockCount  int64           `json:"low_stock_count"`
	UnreadAlerts   int64           `json:"unread_alerts"`
	TopProducts    []TopProductDTO `json:"top_products"`
}
