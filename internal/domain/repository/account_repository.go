package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas por pagar/cobrar.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	ListByCompany(ctx context.Context, companyID, kind string, limit, offset int) ([]*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	Delete(ctx context.Context, id string) error
	// ListUnpaidDueBefore lista cuentas no pagadas con vencimiento hasta la fecha dada
	// (para las alertas DUE_DATE).
	ListUnpaidDueBefore(ctx context.Context, companyID string, until time.Time) ([]*entity.Account, error)
}
