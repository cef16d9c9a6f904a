package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// ReceiptLine línea de una orden resuelta para el comprobante (con nombre de producto).
type ReceiptLine struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptGenerator renderiza el comprobante PDF de una orden.
type ReceiptGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, company *entity.Company, lines []ReceiptLine) ([]byte, error)
}

// ReceiptUseCase arma y genera el comprobante PDF de una venta o compra.
type ReceiptUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
	generator   ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso de comprobantes.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	companyRepo repository.CompanyRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		companyRepo: companyRepo,
		generator:   generator,
	}
}

// Generate produce el PDF del comprobante de la orden. El scoping es el mismo
// del coordinador: orden de otra empresa o tipo responde ErrOrderNotFound.
func (uc *ReceiptUseCase) Generate(ctx context.Context, companyID, orderType, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID || order.Type != orderType {
		return nil, domain.ErrOrderNotFound
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		if p, err := uc.productRepo.GetByID(it.ProductID); err == nil && p != nil {
			name = p.Name
		}
		lines = append(lines, ReceiptLine{
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return uc.generator.GenerateOrderPDF(ctx, order, company, lines)
}
