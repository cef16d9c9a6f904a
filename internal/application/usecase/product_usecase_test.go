package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Product)}
}

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByCompanyAndCode(companyID, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) Deactivate(id string) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *memProductRepo) ListByCompany(companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) ListActiveAtOrBelowStock(string, int64) ([]*entity.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

// stubOrderRepo solo responde si el producto está referenciado por líneas.
type stubOrderRepo struct {
	referenced map[string]bool
}

func (r *stubOrderRepo) Create(*entity.Order) error         { return nil }
func (r *stubOrderRepo) CreateItem(*entity.OrderItem) error { return nil }
func (r *stubOrderRepo) GetByID(string) (*entity.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) GetByIDForUpdate(string) (*entity.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) GetItems(string) ([]*entity.OrderItem, error) { return nil, nil }
func (r *stubOrderRepo) ListByCompany(string, string, int, int) ([]*entity.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) UpdateHeader(*entity.Order) error        { return nil }
func (r *stubOrderRepo) UpdateStatus(string, string, bool) error { return nil }
func (r *stubOrderRepo) UpdateStatusOnly(string, string) (bool, error) {
	return true, nil
}
func (r *stubOrderRepo) DeleteItems(string) error                { return nil }
func (r *stubOrderRepo) Delete(string) error                     { return nil }
func (r *stubOrderRepo) HasItemsForProduct(productID string) (bool, error) {
	return r.referenced[productID], nil
}
func (r *stubOrderRepo) ListCompletedSales(string, time.Time, time.Time) ([]*entity.Order, error) {
	return nil, nil
}

const empresa = "00000000-0000-0000-0000-00000000000a"

func newProductFixture() (*usecase.ProductUseCase, *memProductRepo, *stubOrderRepo) {
	repo := newMemProductRepo()
	orderRepo := &stubOrderRepo{referenced: make(map[string]bool)}
	return usecase.NewProductUseCase(repo, orderRepo), repo, orderRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearProducto_NaceActivoConStockCero(t *testing.T) {
	uc, repo, _ := newProductFixture()

	resp, err := uc.Create(empresa, dto.CreateProductRequest{
		Code:      "SKU-001",
		Name:      "Café molido 500g",
		CostPrice: decimal.RequireFromString("6000"),
		SalePrice: decimal.RequireFromString("9500"),
		MinStock:  10,
	})
	require.NoError(t, err)

	assert.True(t, resp.Active, "todo producto nace activo")
	assert.Equal(t, int64(0), resp.Stock, "el stock inicial siempre es cero")
	assert.Equal(t, "SKU-001", repo.products[resp.ID].Code)
}

func TestCrearProducto_CodigoDuplicadoPorEmpresa(t *testing.T) {
	uc, _, _ := newProductFixture()

	_, err := uc.Create(empresa, dto.CreateProductRequest{Code: "SKU-001", Name: "Uno"})
	require.NoError(t, err)

	_, err = uc.Create(empresa, dto.CreateProductRequest{Code: "SKU-001", Name: "Dos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el código es único por empresa")

	// La misma clave en otra empresa sí es válida.
	_, err = uc.Create("otra-empresa", dto.CreateProductRequest{Code: "SKU-001", Name: "Tres"})
	assert.NoError(t, err)
}

func TestCrearProducto_Validaciones(t *testing.T) {
	uc, _, _ := newProductFixture()

	_, err := uc.Create(empresa, dto.CreateProductRequest{Name: "Sin código"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(empresa, dto.CreateProductRequest{
		Code: "SKU-002", Name: "Precio negativo",
		SalePrice: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActualizarProducto_NoTocaStockNiCosto(t *testing.T) {
	uc, repo, _ := newProductFixture()

	created, err := uc.Create(empresa, dto.CreateProductRequest{
		Code: "SKU-001", Name: "Original",
		CostPrice: decimal.RequireFromString("6000"),
		SalePrice: decimal.RequireFromString("9500"),
	})
	require.NoError(t, err)
	repo.products[created.ID].Stock = 42 // simula movimiento previo

	nombre := "Renombrado"
	precio := decimal.RequireFromString("11000")
	resp, err := uc.Update(empresa, created.ID, dto.UpdateProductRequest{
		Name:      &nombre,
		SalePrice: &precio,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renombrado", resp.Name)
	assert.True(t, resp.SalePrice.Equal(precio))
	assert.Equal(t, int64(42), repo.products[created.ID].Stock,
		"la edición del catálogo jamás escribe el stock")
	assert.True(t, repo.products[created.ID].CostPrice.Equal(decimal.RequireFromString("6000")),
		"el costo solo lo sobreescriben las compras")
}

func TestEliminarProducto_BajaLogicaSiTieneHistorial(t *testing.T) {
	uc, repo, orderRepo := newProductFixture()

	conHistorial, err := uc.Create(empresa, dto.CreateProductRequest{Code: "SKU-001", Name: "Con historial"})
	require.NoError(t, err)
	sinHistorial, err := uc.Create(empresa, dto.CreateProductRequest{Code: "SKU-002", Name: "Sin historial"})
	require.NoError(t, err)
	orderRepo.referenced[conHistorial.ID] = true

	require.NoError(t, uc.Delete(empresa, conHistorial.ID))
	p := repo.products[conHistorial.ID]
	require.NotNil(t, p, "el producto referenciado por órdenes no se borra en duro")
	assert.False(t, p.Active, "queda desactivado para conservar el historial")

	require.NoError(t, uc.Delete(empresa, sinHistorial.ID))
	assert.Nil(t, repo.products[sinHistorial.ID], "sin historial sí se elimina definitivamente")
}

func TestProducto_AccesoCruzado_NoEncontrado(t *testing.T) {
	uc, _, _ := newProductFixture()

	created, err := uc.Create(empresa, dto.CreateProductRequest{Code: "SKU-001", Name: "Privado"})
	require.NoError(t, err)

	_, err = uc.GetByID("otra-empresa", created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound,
		"un producto ajeno responde no encontrado, nunca prohibido")

	err = uc.Delete("otra-empresa", created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
