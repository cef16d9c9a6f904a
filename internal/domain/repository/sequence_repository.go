package repository

// SequenceRepository asigna el siguiente consecutivo por (empresa, tipo de
// orden). La implementación debe ser un contador atómico (fila dedicada con
// incremento condicional), no un escaneo de "máximo + 1": dos creaciones
// concurrentes jamás deben recibir el mismo número.
type SequenceRepository interface {
	NextNumber(companyID, orderType string) (int64, error)
}
