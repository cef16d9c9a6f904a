package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia para Alert.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	// ExistsRecent indica si ya existe una alerta con el mismo
	// (empresa, tipo, título) creada después de since (ventana de deduplicación).
	ExistsRecent(ctx context.Context, companyID, alertType, title string, since time.Time) (bool, error)
	ListByCompany(ctx context.Context, companyID string, onlyUnread bool, limit, offset int) ([]*entity.Alert, error)
	MarkRead(ctx context.Context, companyID, id string) error
	Delete(ctx context.Context, companyID, id string) error
	DeleteRead(ctx context.Context, companyID string) (int64, error)
}
