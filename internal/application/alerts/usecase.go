package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/pkg/logger"
	"github.com/jhoicas/Gestion-api/pkg/metrics"
)

// LowStockThreshold umbral fijo del disparador de stock bajo (independiente
// del MinStock configurable de cada producto).
const LowStockThreshold = 5

// DedupWindow ventana de deduplicación: no se repite una alerta con el mismo
// (empresa, tipo, título) dentro de este intervalo.
const DedupWindow = 24 * time.Hour

// dueSoonDays anticipación con la que se alerta el vencimiento de cuentas.
const dueSoonDays = 3

// UseCase gestiona las alertas operativas: el disparador de stock bajo, las
// alertas de vencimiento de cuentas y el CRUD manual. El disparador es
// puramente aditivo: nunca edita ni borra alertas existentes.
type UseCase struct {
	alertRepo   repository.AlertRepository
	productRepo repository.ProductRepository
	accountRepo repository.AccountRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de alertas. accountRepo puede ser nil
// (sin alertas de vencimiento).
func NewUseCase(
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	accountRepo repository.AccountRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		alertRepo:   alertRepo,
		productRepo: productRepo,
		accountRepo: accountRepo,
		log:         log,
	}
}

// RefreshLowStock recorre los productos activos con stock <= 5 y crea una
// alerta LOW_STOCK de prioridad HIGH por cada uno, salvo que ya exista una
// con el mismo título dentro de la ventana de 24 horas. El fallo al crear una
// alerta individual se registra y se continúa con las demás.
func (uc *UseCase) RefreshLowStock(ctx context.Context, companyID string) error {
	products, err := uc.productRepo.ListActiveAtOrBelowStock(companyID, LowStockThreshold)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, p := range products {
		title := fmt.Sprintf("Stock bajo: %s", p.Name)
		exists, err := uc.alertRepo.ExistsRecent(ctx, companyID, entity.AlertTypeLowStock, title, now.Add(-DedupWindow))
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		alert := &entity.Alert{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Type:      entity.AlertTypeLowStock,
			Title:     title,
			Message:   fmt.Sprintf("El producto %s (código %s) tiene %d unidades en stock", p.Name, p.Code, p.Stock),
			Priority:  entity.AlertPriorityHigh,
			CreatedAt: now,
		}
		if err := uc.alertRepo.Create(ctx, alert); err != nil {
			if uc.log != nil {
				uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("crear alerta de stock bajo")
			}
			continue
		}
		metrics.AlertsEmitted.WithLabelValues(entity.AlertTypeLowStock).Inc()
	}
	return nil
}

// RefreshDueDates crea alertas DUE_DATE para cuentas no pagadas que vencen en
// los próximos días (HIGH si ya vencieron, MEDIUM si están por vencer), con la
// misma ventana de deduplicación de 24 horas.
func (uc *UseCase) RefreshDueDates(ctx context.Context, companyID string) error {
	if uc.accountRepo == nil {
		return nil
	}
	now := time.Now()
	accounts, err := uc.accountRepo.ListUnpaidDueBefore(ctx, companyID, now.AddDate(0, 0, dueSoonDays))
	if err != nil {
		return err
	}
	for _, a := range accounts {
		title := fmt.Sprintf("Cuenta por vencer: %s", a.Description)
		priority := entity.AlertPriorityMedium
		if a.DueDate.Before(now) {
			title = fmt.Sprintf("Cuenta vencida: %s", a.Description)
			priority = entity.AlertPriorityHigh
		}
		exists, err := uc.alertRepo.ExistsRecent(ctx, companyID, entity.AlertTypeDueDate, title, now.Add(-DedupWindow))
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		alert := &entity.Alert{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Type:      entity.AlertTypeDueDate,
			Title:     title,
			Message:   fmt.Sprintf("%s por %s vence el %s", a.Kind, a.Amount.StringFixed(2), a.DueDate.Format("2006-01-02")),
			Priority:  priority,
			CreatedAt: now,
		}
		if err := uc.alertRepo.Create(ctx, alert); err != nil {
			if uc.log != nil {
				uc.log.Warn().Err(err).Str("account_id", a.ID).Msg("crear alerta de vencimiento")
			}
			continue
		}
		metrics.AlertsEmitted.WithLabelValues(entity.AlertTypeDueDate).Inc()
	}
	return nil
}

// Create alta manual de una alerta.
func (uc *UseCase) Create(ctx context.Context, companyID string, in dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	if in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	alertType := in.Type
	if alertType == "" {
		alertType = entity.AlertTypeOther
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.AlertPriorityLow
	}
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Type:      alertType,
		Title:     in.Title,
		Message:   in.Message,
		Priority:  priority,
		CreatedAt: time.Now(),
	}
	if err := uc.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// List lista alertas de la empresa, opcionalmente solo las no leídas.
func (uc *UseCase) List(ctx context.Context, companyID string, onlyUnread bool, limit, offset int) (*dto.AlertListResponse, error) {
	list, err := uc.alertRepo.ListByCompany(ctx, companyID, onlyUnread, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAlertResponse(a))
	}
	return &dto.AlertListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// MarkRead marca una alerta como leída.
func (uc *UseCase) MarkRead(ctx context.Context, companyID, id string) error {
	return uc.alertRepo.MarkRead(ctx, companyID, id)
}

// Delete elimina una alerta puntual.
func (uc *UseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.alertRepo.Delete(ctx, companyID, id)
}

// DeleteRead elimina en bloque las alertas ya leídas y devuelve cuántas borró.
func (uc *UseCase) DeleteRead(ctx context.Context, companyID string) (int64, error) {
	return uc.alertRepo.DeleteRead(ctx, companyID)
}

func toAlertResponse(a *entity.Alert) *dto.AlertResponse {
	return &dto.AlertResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Type:      a.Type,
		Title:     a.Title,
		Message:   a.Message,
		Priority:  a.Priority,
		Read:      a.Read,
		CreatedAt: a.CreatedAt,
	}
}
