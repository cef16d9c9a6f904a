package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta: por pagar (a proveedores) y por cobrar (de clientes).
const (
	AccountKindPayable    = "PAYABLE"
	AccountKindReceivable = "RECEIVABLE"
)

// Account representa una cuenta por pagar o por cobrar de la empresa.
// Alimenta las alertas de vencimiento (DUE_DATE).
type Account struct {
	ID          string
	CompanyID   string
	Kind        string // PAYABLE | RECEIVABLE
	Description string
	Counterpart string
	Amount      decimal.Decimal
	DueDate     time.Time
	Paid        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
