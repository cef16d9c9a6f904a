package entity

import "time"

// Tipos de alerta.
const (
	AlertTypeLowStock = "LOW_STOCK"
	AlertTypeDueDate  = "DUE_DATE"
	AlertTypeOther    = "OTHER"
)

// Prioridades de alerta.
const (
	AlertPriorityLow    = "LOW"
	AlertPriorityMedium = "MEDIUM"
	AlertPriorityHigh   = "HIGH"
)

// Alert representa una alerta operativa de la empresa. Una vez creada solo
// muta su flag de lectura; el disparador de alertas nunca edita ni borra.
type Alert struct {
	ID        string
	CompanyID string
	Type      string // LOW_STOCK, DUE_DATE, OTHER
	Title     string
	Message   string
	Priority  string // LOW, MEDIUM, HIGH
	Read      bool
	CreatedAt time.Time
}
