package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/alerts"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// topProductsLimit cantidad de productos destacados en el dashboard.
const topProductsLimit = 5

// DashboardUseCase arma el resumen operativo del mes en curso a partir de
// consultas de agregación de solo lectura.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// Summary agrega ventas, compras, stock bajo y alertas sin leer del mes en curso.
func (uc *DashboardUseCase) Summary(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	sales, err := uc.analyticsRepo.OrderTotals(ctx, companyID, entity.OrderTypeSale, from, now)
	if err != nil {
		return nil, err
	}
	purchases, err := uc.analyticsRepo.OrderTotals(ctx, companyID, entity.OrderTypePurchase, from, now)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.analyticsRepo.LowStockCount(ctx, companyID, alerts.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	unread, err := uc.analyticsRepo.UnreadAlertCount(ctx, companyID)
	if err != nil {
		return nil, err
	}
	top, err := uc.analyticsRepo.TopProducts(ctx, companyID, from, now, topProductsLimit)
	if err != nil {
		return nil, err
	}

	topDTOs := make([]dto.TopProductDTO, 0, len(top))
	for _, t := range top {
		topDTOs = append(topDTOs, dto.TopProductDTO{
			ProductID:   t.ProductID,
			ProductName: t.ProductName,
			UnitsSold:   t.UnitsSold,
			Revenue:     t.Revenue,
		})
	}
	return &dto.DashboardResponse{
		SalesTotal:     sales.Total,
		SalesCount:     sales.Count,
		PurchasesTotal: purchases.Total,
		PurchasesCount: purchases.Count,
		LowStockCount:  lowStock,
		UnreadAlerts:   unread,
		TopProducts:    topDTOs,
	}, nil
}
