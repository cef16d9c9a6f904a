package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/alerts"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeAlertRepo guarda alertas en memoria. failTitles permite simular el fallo
// de creación de alertas puntuales.
type fakeAlertRepo struct {
	alerts     []*entity.Alert
	failTitles map[string]bool
}

func (r *fakeAlertRepo) Create(_ context.Context, a *entity.Alert) error {
	if r.failTitles[a.Title] {
		return errors.New("fallo simulado de persistencia")
	}
	cp := *a
	r.alerts = append(r.alerts, &cp)
	return nil
}

func (r *fakeAlertRepo) ExistsRecent(_ context.Context, companyID, alertType, title string, since time.Time) (bool, error) {
	for _, a := range r.alerts {
		if a.CompanyID == companyID && a.Type == alertType && a.Title == title && a.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAlertRepo) ListByCompany(_ context.Context, companyID string, onlyUnread bool, _, _ int) ([]*entity.Alert, error) {
	var out []*entity.Alert
	for _, a := range r.alerts {
		if a.CompanyID != companyID {
			continue
		}
		if onlyUnread && a.Read {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAlertRepo) MarkRead(_ context.Context, companyID, id string) error {
	for _, a := range r.alerts {
		if a.CompanyID == companyID && a.ID == id {
			a.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) Delete(_ context.Context, companyID, id string) error {
	for i, a := range r.alerts {
		if a.CompanyID == companyID && a.ID == id {
			r.alerts = append(r.alerts[:i], r.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAlertRepo) DeleteRead(_ context.Context, companyID string) (int64, error) {
	var kept []*entity.Alert
	var deleted int64
	for _, a := range r.alerts {
		if a.CompanyID == companyID && a.Read {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.alerts = kept
	return deleted, nil
}

// fakeProductLister solo implementa la consulta que usa el disparador.
type fakeProductLister struct {
	products []*entity.Product
}

func (r *fakeProductLister) Create(*entity.Product) error { return nil }
func (r *fakeProductLister) GetByID(string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductLister) GetByCompanyAndCode(string, string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductLister) Update(*entity.Product) error { return nil }
func (r *fakeProductLister) Deactivate(string) error      { return nil }
func (r *fakeProductLister) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductLister) ListActiveAtOrBelowStock(companyID string, threshold int64) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Active && p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductLister) Delete(string) error { return nil }

// fakeAccountRepo solo implementa la consulta de cuentas por vencer.
type fakeAccountRepo struct {
	accounts []*entity.Account
}

func (r *fakeAccountRepo) Create(context.Context, *entity.Account) error { return nil }
func (r *fakeAccountRepo) GetByID(context.Context, string) (*entity.Account, error) {
	return nil, nil
}
func (r *fakeAccountRepo) ListByCompany(context.Context, string, string, int, int) ([]*entity.Account, error) {
	return nil, nil
}
func (r *fakeAccountRepo) Update(context.Context, *entity.Account) error { return nil }
func (r *fakeAccountRepo) Delete(context.Context, string) error          { return nil }
func (r *fakeAccountRepo) ListUnpaidDueBefore(_ context.Context, companyID string, until time.Time) ([]*entity.Account, error) {
	var out []*entity.Account
	for _, a := range r.accounts {
		if a.CompanyID == companyID && !a.Paid && a.DueDate.Before(until) {
			out = append(out, a)
		}
	}
	return out, nil
}

const empresa = "00000000-0000-0000-0000-00000000000a"

func producto(id string, stock int64, active bool) *entity.Product {
	return &entity.Product{
		ID:        id,
		CompanyID: empresa,
		Code:      "P-" + id,
		Name:      "Producto " + id,
		Stock:     stock,
		Active:    active,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Disparador de stock bajo
// ──────────────────────────────────────────────────────────────────────────────

func TestRefreshLowStock_CreaAlertaHighPorProductoEnUmbral(t *testing.T) {
	alertRepo := &fakeAlertRepo{}
	productRepo := &fakeProductLister{products: []*entity.Product{
		producto("p1", 3, true),  // bajo el umbral
		producto("p2", 5, true),  // exactamente en el umbral: también alerta
		producto("p3", 6, true),  // por encima: no alerta
		producto("p4", 0, false), // inactivo: no alerta
	}}
	uc := alerts.NewUseCase(alertRepo, productRepo, nil, nil)

	require.NoError(t, uc.RefreshLowStock(context.Background(), empresa))

	require.Len(t, alertRepo.alerts, 2, "solo los productos activos con stock <= 5 generan alerta")
	for _, a := range alertRepo.alerts {
		assert.Equal(t, entity.AlertTypeLowStock, a.Type)
		assert.Equal(t, entity.AlertPriorityHigh, a.Priority, "las alertas de stock bajo son HIGH")
		assert.Contains(t, a.Title, "Stock bajo:")
		assert.False(t, a.Read, "las alertas nacen sin leer")
	}
}

func TestRefreshLowStock_DeduplicaDentroDe24Horas(t *testing.T) {
	alertRepo := &fakeAlertRepo{}
	productRepo := &fakeProductLister{products: []*entity.Product{producto("p1", 2, true)}}
	uc := alerts.NewUseCase(alertRepo, productRepo, nil, nil)
	ctx := context.Background()

	require.NoError(t, uc.RefreshLowStock(ctx, empresa))
	require.Len(t, alertRepo.alerts, 1)

	// Segundo disparo inmediato: mismo título dentro de la ventana, no duplica.
	require.NoError(t, uc.RefreshLowStock(ctx, empresa))
	assert.Len(t, alertRepo.alerts, 1, "el mismo título no se repite dentro de la ventana de 24h")

	// Si la alerta previa envejece más allá de la ventana, vuelve a emitirse.
	alertRepo.alerts[0].CreatedAt = time.Now().Add(-alerts.DedupWindow - time.Hour)
	require.NoError(t, uc.RefreshLowStock(ctx, empresa))
	assert.Len(t, alertRepo.alerts, 2, "pasada la ventana el mismo título vuelve a alertar")
}

func TestRefreshLowStock_FalloIndividualNoDetieneElResto(t *testing.T) {
	alertRepo := &fakeAlertRepo{failTitles: map[string]bool{"Stock bajo: Producto p1": true}}
	productRepo := &fakeProductLister{products: []*entity.Product{
		producto("p1", 1, true),
		producto("p2", 2, true),
	}}
	uc := alerts.NewUseCase(alertRepo, productRepo, nil, nil)

	err := uc.RefreshLowStock(context.Background(), empresa)
	require.NoError(t, err, "el fallo de una alerta individual se registra y se descarta")
	require.Len(t, alertRepo.alerts, 1, "las demás alertas deben crearse igual")
	assert.Equal(t, "Stock bajo: Producto p2", alertRepo.alerts[0].Title)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas de vencimiento de cuentas
// ──────────────────────────────────────────────────────────────────────────────

func TestRefreshDueDates_PrioridadSegunVencimiento(t *testing.T) {
	now := time.Now()
	alertRepo := &fakeAlertRepo{}
	accountRepo := &fakeAccountRepo{accounts: []*entity.Account{
		{
			ID: "a1", CompanyID: empresa, Kind: entity.AccountKindPayable,
			Description: "Arriendo bodega", Amount: decimal.RequireFromString("500000"),
			DueDate: now.AddDate(0, 0, -2), // ya vencida
		},
		{
			ID: "a2", CompanyID: empresa, Kind: entity.AccountKindReceivable,
			Description: "Factura cliente", Amount: decimal.RequireFromString("120000"),
			DueDate: now.AddDate(0, 0, 2), // por vencer
		},
		{
			ID: "a3", CompanyID: empresa, Kind: entity.AccountKindPayable,
			Description: "Pagada", Amount: decimal.RequireFromString("1000"),
			DueDate: now.AddDate(0, 0, -1), Paid: true, // pagada: no alerta
		},
	}}
	uc := alerts.NewUseCase(alertRepo, &fakeProductLister{}, accountRepo, nil)

	require.NoError(t, uc.RefreshDueDates(context.Background(), empresa))

	require.Len(t, alertRepo.alerts, 2)
	byTitle := make(map[string]*entity.Alert)
	for _, a := range alertRepo.alerts {
		byTitle[a.Title] = a
		assert.Equal(t, entity.AlertTypeDueDate, a.Type)
	}
	vencida := byTitle["Cuenta vencida: Arriendo bodega"]
	require.NotNil(t, vencida)
	assert.Equal(t, entity.AlertPriorityHigh, vencida.Priority, "cuenta ya vencida alerta HIGH")

	porVencer := byTitle["Cuenta por vencer: Factura cliente"]
	require.NotNil(t, porVencer)
	assert.Equal(t, entity.AlertPriorityMedium, porVencer.Priority, "cuenta próxima a vencer alerta MEDIUM")
}

func TestRefreshDueDates_SinRepositorioDeCuentas_NoHaceNada(t *testing.T) {
	alertRepo := &fakeAlertRepo{}
	uc := alerts.NewUseCase(alertRepo, &fakeProductLister{}, nil, nil)

	require.NoError(t, uc.RefreshDueDates(context.Background(), empresa))
	assert.Empty(t, alertRepo.alerts)
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD manual
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DefaultsYValidacion(t *testing.T) {
	alertRepo := &fakeAlertRepo{}
	uc := alerts.NewUseCase(alertRepo, &fakeProductLister{}, nil, nil)
	ctx := context.Background()

	resp, err := uc.Create(ctx, empresa, dto.CreateAlertRequest{Title: "Revisar caja"})
	require.NoError(t, err)
	assert.Equal(t, entity.AlertTypeOther, resp.Type, "sin tipo explícito la alerta es OTHER")
	assert.Equal(t, entity.AlertPriorityLow, resp.Priority, "sin prioridad explícita es LOW")

	_, err = uc.Create(ctx, empresa, dto.CreateAlertRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el título es obligatorio")
}

func TestMarkReadYDeleteRead(t *testing.T) {
	alertRepo := &fakeAlertRepo{}
	uc := alerts.NewUseCase(alertRepo, &fakeProductLister{}, nil, nil)
	ctx := context.Background()

	a1, err := uc.Create(ctx, empresa, dto.CreateAlertRequest{Title: "Alerta uno"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, empresa, dto.CreateAlertRequest{Title: "Alerta dos"})
	require.NoError(t, err)

	require.NoError(t, uc.MarkRead(ctx, empresa, a1.ID))

	soloNoLeidas, err := uc.List(ctx, empresa, true, 20, 0)
	require.NoError(t, err)
	require.Len(t, soloNoLeidas.Items, 1)
	assert.Equal(t, "Alerta dos", soloNoLeidas.Items[0].Title)

	deleted, err := uc.DeleteRead(ctx, empresa)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "solo las alertas leídas se borran en bloque")

	todas, err := uc.List(ctx, empresa, false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, todas.Items, 1)
}
