package pricing

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// Advisor es el consumidor de solo lectura del historial de ventas: compara
// el precio de lista de cada producto con el precio realmente realizado en
// ventas COMPLETED del rango consultado. No tiene acceso de escritura.
type Advisor struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewAdvisor construye el asesor de precios.
func NewAdvisor(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *Advisor {
	return &Advisor{orderRepo: orderRepo, productRepo: productRepo}
}

// Suggestions acumula, por producto, unidades e ingresos de las ventas
// COMPLETED en [from, to] y devuelve el margen realizado frente al de lista,
// ordenado por unidades vendidas descendente.
func (a *Advisor) Suggestions(ctx context.Context, companyID string, from, to time.Time) ([]dto.PricingSuggestionDTO, error) {
	sales, err := a.orderRepo.ListCompletedSales(companyID, from, to)
	if err != nil {
		return nil, err
	}

	type acc struct {
		units   int64
		revenue decimal.Decimal
	}
	byProduct := make(map[string]*acc)
	for _, sale := range sales {
		items, err := a.orderRepo.GetItems(sale.ID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			entry, ok := byProduct[it.ProductID]
			if !ok {
				entry = &acc{revenue: decimal.Zero}
				byProduct[it.ProductID] = entry
			}
			entry.units += it.Quantity
			entry.revenue = entry.revenue.Add(it.Subtotal)
		}
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.PricingSuggestionDTO, 0, len(byProduct))
	for productID, entry := range byProduct {
		product, err := a.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil || entry.units == 0 {
			continue
		}
		avgPrice := entry.revenue.Div(decimal.NewFromInt(entry.units))
		var realized, list decimal.Decimal
		if avgPrice.GreaterThan(decimal.Zero) {
			realized = avgPrice.Sub(product.CostPrice).Div(avgPrice).Mul(hundred).Round(2)
		}
		if product.SalePrice.GreaterThan(decimal.Zero) {
			list = product.SalePrice.Sub(product.CostPrice).Div(product.SalePrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.PricingSuggestionDTO{
			ProductID:       productID,
			ProductName:     product.Name,
			SalePrice:       product.SalePrice,
			AvgSoldPrice:    avgPrice.Round(2),
			UnitsSold:       entry.units,
			CostPrice:       product.CostPrice,
			RealizedMargin:  realized,
			ListPriceMargin: list,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].UnitsSold > suggestions[j].UnitsSold
	})
	return suggestions, nil
}
