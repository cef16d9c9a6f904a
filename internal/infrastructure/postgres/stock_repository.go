package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del libro de stock sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Adjust aplica stock += delta de forma condicional en una sola sentencia:
// el WHERE rechaza el update si el resultado quedara negativo, así dos
// decrementos concurrentes nunca pasan ambos por encima del stock disponible.
// Cero filas afectadas significa stock insuficiente (la existencia del
// producto la valida el caso de uso antes de entrar a la tx).
func (r *StockRepo) Adjust(productID string, delta int64) (int64, error) {
	query := `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`
	var newStock int64
	err := r.q.QueryRow(context.Background(), query, productID, delta).Scan(&newStock)
	if err != nil {
		if isNoRows(err) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return newStock, nil
}

// UpdateCostPrice sobreescribe el costo del producto con el precio unitario
// de la última compra (costeo a último precio, sin promediar).
func (r *StockRepo) UpdateCostPrice(productID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET cost_price = $2, updated_at = now() WHERE id = $1`,
		productID, cost,
	)
	if err != nil {
		return fmt.Errorf("update cost price: %w", err)
	}
	return nil
}
