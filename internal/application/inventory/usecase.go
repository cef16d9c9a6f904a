package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/Gestion-api/internal/application/orders"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

// AdjustStockUseCase aplica ajustes manuales de stock pasando por el mismo
// ajuste condicional del libro de stock que usa el motor de órdenes: ningún
// componente escribe Product.Stock por fuera de esa primitiva.
type AdjustStockUseCase struct {
	txRunner    orders.TxRunner
	productRepo repository.ProductRepository
	notifier    orders.AlertNotifier
	log         *logger.Logger
}

// NewAdjustStockUseCase construye el caso de uso de ajuste manual.
func NewAdjustStockUseCase(
	txRunner orders.TxRunner,
	productRepo repository.ProductRepository,
	notifier orders.AlertNotifier,
	log *logger.Logger,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		notifier:    notifier,
		log:         log,
	}
}

// Adjust aplica stock += delta al producto de la empresa. Un delta que dejaría
// el stock negativo se rechaza con InsufficientStockError sin modificar nada.
// Tras el ajuste se recalculan las alertas de stock bajo fuera de banda.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, companyID, productID string, delta int64) (int64, error) {
	if delta == 0 {
		return 0, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil || product.CompanyID != companyID {
		return 0, domain.ErrProductNotFound
	}

	var newQty int64
	err = uc.txRunner.RunOrders(ctx, func(
		_ repository.OrderRepository,
		_ repository.ProductRepository,
		stockRepo repository.StockRepository,
		_ repository.SequenceRepository,
	) error {
		newQty, err = stockRepo.Adjust(productID, delta)
		if errors.Is(err, domain.ErrInsufficientStock) {
			return &domain.InsufficientStockError{ProductID: productID, ProductName: product.Name}
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	if uc.notifier != nil {
		// Mismo contrato que el motor de órdenes: fallo registrado y descartado.
		if err := uc.notifier.RefreshLowStock(ctx, companyID); err != nil && uc.log != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("refrescar alertas tras ajuste manual")
		}
	}
	return newQty, nil
}
