package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/logger"
	"github.com/jhoicas/Gestion-api/pkg/metrics"
)

// UseCase coordina la creación, edición y anulación de ventas y compras como
// operaciones atómicas multi-fila: cabecera + líneas + ajustes de stock se
// confirman juntos o no se confirma nada.
//
// El efecto de stock se aplica exactamente una vez al crear y se revierte
// exactamente una vez al anular; el eje PENDING/COMPLETED es informativo y
// nunca vuelve a tocar el stock.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	notifier    AlertNotifier
	log         *logger.Logger
}

// NewUseCase construye el coordinador de órdenes. notifier puede ser nil
// (sin alertas de stock bajo).
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	notifier AlertNotifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		notifier:    notifier,
		log:         log,
	}
}

// lineItem línea normalizada con precio resuelto y subtotal calculado.
type lineItem struct {
	product   *entity.Product
	quantity  int64
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// validateItems valida cada línea contra el catálogo de la empresa y resuelve
// precios por defecto. El producto debe existir, pertenecer a la empresa y
// estar activo; el acceso cruzado entre empresas responde "no encontrado"
// para no filtrar existencia.
func (uc *UseCase) validateItems(companyID, orderType string, items []dto.OrderItemRequest) ([]lineItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	lines := make([]lineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != companyID || !product.Active {
			return nil, domain.ErrProductNotFound
		}
		price := it.UnitPrice
		if price.IsZero() {
			if orderType == entity.OrderTypePurchase {
				price = product.CostPrice
			} else {
				price = product.SalePrice
			}
		}
		qty := decimal.NewFromInt(it.Quantity)
		lines = append(lines, lineItem{
			product:   product,
			quantity:  it.Quantity,
			unitPrice: price,
			subtotal:  qty.Mul(price),
		})
	}
	return lines, nil
}

// sumSubtotals devuelve Σ(subtotal de línea).
func sumSubtotals(lines []lineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.subtotal)
	}
	return total
}

// Create crea una venta o compra. Dentro de una sola transacción: asigna el
// consecutivo, inserta cabecera y líneas, y ajusta el stock línea por línea
// (venta descuenta, compra incrementa y sobreescribe el costo del producto).
// El ajuste es condicional dentro de la transacción: si alguna línea dejaría
// el stock negativo, toda la orden se rechaza con InsufficientStockError y no
// se persiste nada.
func (uc *UseCase) Create(ctx context.Context, companyID, orderType string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if orderType != entity.OrderTypeSale && orderType != entity.OrderTypePurchase {
		return nil, domain.ErrInvalidInput
	}
	lines, err := uc.validateItems(companyID, orderType, in.Items)
	if err != nil {
		return nil, err
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.OrderStatusPending
	}
	if !entity.ValidOrderStatus(status) || status == entity.OrderStatusCancelled {
		return nil, domain.ErrInvalidStatus
	}

	now := time.Now()
	subtotal := sumSubtotals(lines)
	order := &entity.Order{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Type:          orderType,
		Counterpart:   in.Counterpart,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		Total:         subtotal.Sub(in.Discount),
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		Status:        status,
		StockApplied:  true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var items []*entity.OrderItem

	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
		stockRepo repository.StockRepository,
		seqRepo repository.SequenceRepository,
	) error {
		n, err := seqRepo.NextNumber(companyID, orderType)
		if err != nil {
			return err
		}
		order.Number = FormatNumber(n)
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, l := range lines {
			item := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				Subtotal:  l.subtotal,
			}
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
			if _, err := stockRepo.Adjust(l.product.ID, order.StockSign()*l.quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return &domain.InsufficientStockError{ProductID: l.product.ID, ProductName: l.product.Name}
				}
				return err
			}
			if orderType == entity.OrderTypePurchase {
				if err := stockRepo.UpdateCostPrice(l.product.ID, l.unitPrice); err != nil {
					return err
				}
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(orderType).Inc()
	if orderType == entity.OrderTypeSale {
		uc.notifyLowStock(companyID)
	}
	return toOrderResponse(order, items), nil
}

// Cancel anula una orden y revierte su efecto de stock exactamente una vez.
// Revertir una venta devuelve las unidades (siempre procede); revertir una
// compra las resta y puede fallar con InsufficientStockError si ya fueron
// revendidas. En ese caso no se revierte ninguna línea ni cambia el estado.
//
// El guard de "ya anulada" autoritativo corre dentro de la transacción, bajo
// el lock de la fila de la orden: dos anulaciones concurrentes se serializan
// ahí y la segunda ve CANCELLED, nunca una segunda reversión.
func (uc *UseCase) Cancel(ctx context.Context, companyID, orderType, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(companyID, orderType, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	var items []*entity.OrderItem
	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		_ repository.SequenceRepository,
	) error {
		locked, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrOrderNotFound
		}
		if locked.Status == entity.OrderStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		items, err = orderRepo.GetItems(orderID)
		if err != nil {
			return err
		}
		if locked.StockApplied {
			for _, item := range items {
				if _, err := stockRepo.Adjust(item.ProductID, -locked.StockSign()*item.Quantity); err != nil {
					if errors.Is(err, domain.ErrInsufficientStock) {
						return uc.namedInsufficientStock(productRepo, item.ProductID)
					}
					return err
				}
			}
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusCancelled, false)
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.WithLabelValues(orderType).Inc()
	order.Status = entity.OrderStatusCancelled
	order.StockApplied = false
	return toOrderResponse(order, items), nil
}

// Edit reemplaza las líneas completas (borrar + recrear) y recalcula los
// totales de la cabecera en una sola transacción.
//
// Esta operación NO toca el stock: cambiar cantidades por edición no ajusta
// Product.Stock aunque la creación original sí lo hizo. Es el comportamiento
// heredado del sistema; corregirlo (diferenciar cantidades viejas vs nuevas)
// queda como cambio deliberado y visible, no se "arregla" aquí por inferencia.
func (uc *UseCase) Edit(ctx context.Context, companyID, orderType, orderID string, in dto.EditOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(companyID, orderType, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, domain.ErrConflict
	}
	lines, err := uc.validateItems(companyID, orderType, in.Items)
	if err != nil {
		return nil, err
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = order.Status
	}
	if !entity.ValidOrderStatus(status) || status == entity.OrderStatusCancelled {
		return nil, domain.ErrInvalidStatus
	}

	subtotal := sumSubtotals(lines)
	order.Counterpart = in.Counterpart
	order.Subtotal = subtotal
	order.Discount = in.Discount
	order.Total = subtotal.Sub(in.Discount)
	order.PaymentMethod = in.PaymentMethod
	order.Notes = in.Notes
	order.Status = status
	order.UpdatedAt = time.Now()

	var items []*entity.OrderItem
	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
		_ repository.StockRepository,
		_ repository.SequenceRepository,
	) error {
		if err := orderRepo.DeleteItems(orderID); err != nil {
			return err
		}
		if err := orderRepo.UpdateHeader(order); err != nil {
			return err
		}
		for _, l := range lines {
			item := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				Subtotal:  l.subtotal,
			}
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, items), nil
}

// UpdateStatus transiciona el estado de la orden entre PENDING, COMPLETED y
// CANCELLED. La transición a CANCELLED delega en Cancel para que la reversión
// de stock ocurra exactamente una vez; el resto cambia SOLO el estado, nunca
// el flag de efecto de stock, y es condicional a que la orden siga vigente
// (una anulación que confirme en medio no se resucita con la lectura obsoleta).
// Completar una venta dispara el recálculo de alertas de stock bajo.
func (uc *UseCase) UpdateStatus(ctx context.Context, companyID, orderType, orderID, newStatus string) (*dto.OrderResponse, error) {
	if !entity.ValidOrderStatus(newStatus) {
		return nil, domain.ErrInvalidStatus
	}
	if newStatus == entity.OrderStatusCancelled {
		return uc.Cancel(ctx, companyID, orderType, orderID)
	}
	order, err := uc.getOwned(companyID, orderType, orderID)
	if err != nil {
		return nil, err
	}
	// CANCELLED es terminal: no admite más transiciones.
	if order.Status == entity.OrderStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	ok, err := uc.orderRepo.UpdateStatusOnly(orderID, newStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyCancelled
	}
	order.Status = newStatus
	if newStatus == entity.OrderStatusCompleted && orderType == entity.OrderTypeSale {
		uc.notifyLowStock(companyID)
	}
	items, err := uc.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, items), nil
}

// Get obtiene una orden de la empresa con sus líneas.
func (uc *UseCase) Get(companyID, orderType, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(companyID, orderType, orderID)
	if err != nil {
		return nil, err
	}
	items, err := uc.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, items), nil
}

// List lista las órdenes de un tipo para la empresa (sin líneas).
func (uc *UseCase) List(companyID, orderType string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.ListByCompany(companyID, orderType, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina definitivamente una orden. Solo se permite para órdenes
// CANCELLED (el stock ya fue revertido); las demás nunca se borran en duro.
func (uc *UseCase) Delete(ctx context.Context, companyID, orderType, orderID string) error {
	order, err := uc.getOwned(companyID, orderType, orderID)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderStatusCancelled {
		return domain.ErrConflict
	}
	return uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
		_ repository.StockRepository,
		_ repository.SequenceRepository,
	) error {
		if err := orderRepo.DeleteItems(orderID); err != nil {
			return err
		}
		return orderRepo.Delete(orderID)
	})
}

// getOwned obtiene la orden escopada a la empresa y al tipo. Una orden de otra
// empresa o de otro tipo responde ErrOrderNotFound (no Forbidden) para no
// filtrar existencia entre tenants.
func (uc *UseCase) getOwned(companyID, orderType, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID || order.Type != orderType {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// namedInsufficientStock arma el error con el nombre del producto ofensor.
func (uc *UseCase) namedInsufficientStock(productRepo repository.ProductRepository, productID string) error {
	e := &domain.InsufficientStockError{ProductID: productID}
	if p, err := productRepo.GetByID(productID); err == nil && p != nil {
		e.ProductName = p.Name
	}
	return e
}

// notifyLowStock lanza el recálculo de alertas fuera de banda. Los fallos se
// registran y se descartan: nunca afectan la orden que los disparó.
func (uc *UseCase) notifyLowStock(companyID string) {
	if uc.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.notifier.RefreshLowStock(ctx, companyID); err != nil && uc.log != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("refrescar alertas de stock bajo")
		}
	}()
}

func toOrderResponse(o *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:            o.ID,
		CompanyID:     o.CompanyID,
		Type:          o.Type,
		Number:        o.Number,
		Counterpart:   o.Counterpart,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		Status:        o.Status,
		Items:         make([]dto.OrderItemResponse, 0, len(items)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}
