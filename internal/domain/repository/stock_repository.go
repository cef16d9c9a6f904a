package repository

import "github.com/shopspring/decimal"

// StockRepository es el libro de stock: el único punto por donde se muta
// Product.Stock. Debe usarse dentro de la transacción del coordinador de
// órdenes para que nunca se observe una orden aplicada a medias.
type StockRepository interface {
	// Adjust aplica stock += delta de forma condicional: si el resultado
	// quedara negativo no modifica nada y retorna ErrInsufficientStock.
	// Devuelve la cantidad resultante.
	Adjust(productID string, delta int64) (int64, error)
	// UpdateCostPrice sobreescribe el costo del producto con el precio
	// unitario de la última compra (costeo a último precio, sin promediar).
	UpdateCostPrice(productID string, cost decimal.Decimal) error
}
