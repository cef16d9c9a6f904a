package entity

import "time"

// Estados válidos de Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa una empresa/tenant del sistema. Todos los datos
// operativos (productos, órdenes, alertas, cuentas) se escopan por CompanyID.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT o documento tributario de la empresa
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive indica si la empresa puede operar (las demás quedan en solo lectura).
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}
