package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una empresa.
// Stock es un contador entero compartido: solo puede mutarse a través del
// ajuste condicional del repositorio de stock, nunca por read-modify-write.
// CostPrice se sobreescribe con el precio unitario de la última compra.
type Product struct {
	ID          string
	CompanyID   string
	Code        string // único por empresa
	Name        string
	Description string
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	Stock       int64 // siempre >= 0 tras cada transacción confirmada
	MinStock    int64 // umbral configurable de referencia (no el de alertas)
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
