package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos por (empresa, tipo de orden) con una fila
// contador por combinación. Debe usarse dentro de la tx de creación de la
// orden: si la tx hace rollback, el incremento también.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador de consecutivos. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// NextNumber incrementa y devuelve el contador de forma atómica. El upsert en
// una sola sentencia evita la carrera de "leer máximo + 1": dos creaciones
// concurrentes serializan sobre la fila y reciben números distintos.
func (r *SequenceRepo) NextNumber(companyID, orderType string) (int64, error) {
	query := `
		INSERT INTO order_sequences (company_id, order_type, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, order_type)
		DO UPDATE SET last_number = order_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, companyID, orderType).Scan(&n); err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return n, nil
}
