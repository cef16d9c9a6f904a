package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación del puerto AlertRepository sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de persistencia para alertas.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una nueva alerta.
func (r *AlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, company_id, type, title, message, priority, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		alert.ID, alert.CompanyID, alert.Type, alert.Title, alert.Message,
		alert.Priority, alert.Read, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ExistsRecent indica si ya existe una alerta con el mismo (empresa, tipo,
// título) creada después de since. Es la ventana de deduplicación: leída o no,
// una alerta reciente suprime la siguiente idéntica.
func (r *AlertRepo) ExistsRecent(ctx context.Context, companyID, alertType, title string, since time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE company_id = $1 AND type = $2 AND title = $3 AND created_at > $4
		)`,
		companyID, alertType, title, since,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check recent alert: %w", err)
	}
	return exists, nil
}

// ListByCompany lista alertas de la empresa, más recientes primero.
func (r *AlertRepo) ListByCompany(ctx context.Context, companyID string, onlyUnread bool, limit, offset int) ([]*entity.Alert, error) {
	query := `
		SELECT id, company_id, type, title, message, priority, read, created_at
		FROM alerts
		WHERE company_id = $1 AND ($2 = false OR read = false)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, onlyUnread, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Type, &a.Title, &a.Message,
			&a.Priority, &a.Read, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// MarkRead marca una alerta de la empresa como leída.
func (r *AlertRepo) MarkRead(ctx context.Context, companyID, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE alerts SET read = true WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	return nil
}

// Delete elimina una alerta de la empresa.
func (r *AlertRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM alerts WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

// DeleteRead elimina todas las alertas leídas de la empresa y devuelve cuántas borró.
func (r *AlertRepo) DeleteRead(ctx context.Context, companyID string) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM alerts WHERE company_id = $1 AND read = true`, companyID)
	if err != nil {
		return 0, fmt.Errorf("delete read alerts: %w", err)
	}
	return cmd.RowsAffected(), nil
}
