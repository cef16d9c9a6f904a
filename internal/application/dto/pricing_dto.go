package dto

import "github.com/shopspring/decimal"

// PricingSuggestionDTO compara el precio configurado con el realizado en
// ventas COMPLETED del rango consultado.
type PricingSuggestionDTO struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	AvgSoldPrice    decimal.Decimal `json:"avg_sold_price"`
	UnitsSold       int64           `json:"units_sold"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	RealizedMargin  decimal.Decimal `json:"realized_margin_pct"`
	ListPriceMargin decimal.Decimal `json:"list_price_margin_pct"`
}
