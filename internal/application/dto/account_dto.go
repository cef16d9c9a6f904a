package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest datos de una cuenta por pagar o cobrar.
type CreateAccountRequest struct {
	Kind        string          `json:"kind"` // PAYABLE | RECEIVABLE
	Description string          `json:"description"`
	Counterpart string          `json:"counterpart"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
}

// UpdateAccountRequest campos opcionales a actualizar.
type UpdateAccountRequest struct {
	Description *string          `json:"description"`
	Counterpart *string          `json:"counterpart"`
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *time.Time       `json:"due_date"`
	Paid        *bool            `json:"paid"`
}

// AccountResponse representación HTTP de una cuenta.
type AccountResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Counterpart string          `json:"counterpart"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Paid        bool            `json:"paid"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AccountListResponse listado paginado de cuentas.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
