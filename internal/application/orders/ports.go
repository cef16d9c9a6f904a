package orders

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que cabecera, líneas y ajustes de
// stock de una orden se confirmen todos juntos o ninguno.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// AlertNotifier recalcula las alertas de stock bajo de la empresa. Se invoca
// fuera de banda después de confirmar una venta: sus fallos se registran y se
// descartan, jamás afectan la transacción que los disparó.
type AlertNotifier interface {
	RefreshLowStock(ctx context.Context, companyID string) error
}
