package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/orders"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la base de datos; fakeTxRunner simula la transacción con
// snapshot + restore: si la función retorna error no queda ningún cambio,
// igual que un ROLLBACK real.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products map[string]*entity.Product
	orders   map[string]*entity.Order
	items    map[string][]*entity.OrderItem
	seqs     map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		orders:   make(map[string]*entity.Order),
		items:    make(map[string][]*entity.OrderItem),
		seqs:     make(map[string]int64),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for k, list := range s.items {
		cl := make([]*entity.OrderItem, len(list))
		for i, it := range list {
			cp := *it
			cl[i] = &cp
		}
		c.items[k] = cl
	}
	for k, v := range s.seqs {
		c.seqs[k] = v
	}
	return c
}

// fakeTxRunner simula la transacción. beforeTx permite inyectar una escritura
// rival que "confirma" justo antes de que esta transacción arranque.
type fakeTxRunner struct {
	store    *memStore
	beforeTx func()
}

func (r *fakeTxRunner) RunOrders(_ context.Context, fn func(
	repository.OrderRepository,
	repository.ProductRepository,
	repository.StockRepository,
	repository.SequenceRepository,
) error) error {
	if r.beforeTx != nil {
		hook := r.beforeTx
		r.beforeTx = nil
		hook()
	}
	snap := r.store.clone()
	err := fn(
		&fakeOrderRepo{r.store},
		&fakeProductRepo{r.store},
		&fakeStockRepo{r.store},
		&fakeSeqRepo{r.store},
	)
	if err != nil {
		*r.store = *snap
	}
	return err
}

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCompanyAndCode(companyID, code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Deactivate(id string) error {
	if p, ok := r.s.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *fakeProductRepo) ListByCompany(companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListActiveAtOrBelowStock(companyID string, threshold int64) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.Active && p.Stock <= threshold {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateItem(it *entity.OrderItem) error {
	cp := *it
	r.s.items[it.OrderID] = append(r.s.items[it.OrderID], &cp)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) GetItems(orderID string) ([]*entity.OrderItem, error) {
	list := r.s.items[orderID]
	out := make([]*entity.OrderItem, 0, len(list))
	for _, it := range list {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByCompany(companyID, orderType string, _, _ int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID == companyID && o.Type == orderType {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateHeader(o *entity.Order) error {
	cur, ok := r.s.orders[o.ID]
	if !ok {
		return nil
	}
	cur.Counterpart = o.Counterpart
	cur.Subtotal = o.Subtotal
	cur.Discount = o.Discount
	cur.Total = o.Total
	cur.PaymentMethod = o.PaymentMethod
	cur.Notes = o.Notes
	cur.Status = o.Status
	cur.UpdatedAt = o.UpdatedAt
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(id, status string, stockApplied bool) error {
	o, ok := r.s.orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	o.StockApplied = stockApplied
	return nil
}

func (r *fakeOrderRepo) UpdateStatusOnly(id, status string) (bool, error) {
	o, ok := r.s.orders[id]
	if !ok || o.Status == entity.OrderStatusCancelled {
		return false, nil
	}
	o.Status = status
	return true, nil
}

func (r *fakeOrderRepo) DeleteItems(orderID string) error {
	delete(r.s.items, orderID)
	return nil
}

func (r *fakeOrderRepo) Delete(id string) error {
	delete(r.s.orders, id)
	return nil
}

func (r *fakeOrderRepo) HasItemsForProduct(productID string) (bool, error) {
	for _, list := range r.s.items {
		for _, it := range list {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) ListCompletedSales(companyID string, from, to time.Time) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID == companyID && o.Type == entity.OrderTypeSale &&
			o.Status == entity.OrderStatusCompleted &&
			!o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeStockRepo replica el ajuste condicional del libro de stock: nunca deja
// el stock negativo y en ese caso no modifica nada.
type fakeStockRepo struct{ s *memStore }

func (r *fakeStockRepo) Adjust(productID string, delta int64) (int64, error) {
	p, ok := r.s.products[productID]
	if !ok || p.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

func (r *fakeStockRepo) UpdateCostPrice(productID string, cost decimal.Decimal) error {
	if p, ok := r.s.products[productID]; ok {
		p.CostPrice = cost
	}
	return nil
}

type fakeSeqRepo struct{ s *memStore }

func (r *fakeSeqRepo) NextNumber(companyID, orderType string) (int64, error) {
	key := companyID + "|" + orderType
	r.s.seqs[key]++
	return r.s.seqs[key], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	empresaA = "00000000-0000-0000-0000-00000000000a"
	empresaB = "00000000-0000-0000-0000-00000000000b"
)

func newFixture() (*orders.UseCase, *memStore) {
	uc, store, _ := newFixtureWithRunner()
	return uc, store
}

func newFixtureWithRunner() (*orders.UseCase, *memStore, *fakeTxRunner) {
	store := newMemStore()
	runner := &fakeTxRunner{store: store}
	uc := orders.NewUseCase(
		runner,
		&fakeProductRepo{store},
		&fakeOrderRepo{store},
		nil, // sin notificador de alertas
		nil,
	)
	return uc, store, runner
}

func seedProduct(store *memStore, id, companyID string, stock int64, cost, sale string) {
	store.products[id] = &entity.Product{
		ID:        id,
		CompanyID: companyID,
		Code:      "P-" + id,
		Name:      "Producto " + id,
		CostPrice: decimal.RequireFromString(cost),
		SalePrice: decimal.RequireFromString(sale),
		Stock:     stock,
		Active:    true,
	}
}

func lineaDe(productID string, qty int64, price string) dto.OrderItemRequest {
	return dto.OrderItemRequest{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación: efecto de stock, consecutivo y totales
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearVenta_DescuentaStockYAsignaConsecutivo(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")

	resp, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Counterpart: "Cliente Uno",
		Items:       []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})
	require.NoError(t, err)

	assert.Equal(t, "000001", resp.Number, "la primera orden debe llevar el consecutivo 000001")
	assert.Equal(t, entity.OrderStatusPending, resp.Status, "sin estado explícito la orden nace PENDING")
	assert.Equal(t, int64(7), store.products["prod-1"].Stock, "la venta debe descontar el stock al confirmarse")
	assert.True(t, store.orders[resp.ID].StockApplied, "una orden recién creada tiene el efecto de stock aplicado")
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("3000")))
}

func TestCrearCompra_IncrementaStockYSobreescribeCosto(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")

	_, err := uc.Create(context.Background(), empresaA, entity.OrderTypePurchase, dto.CreateOrderRequest{
		Counterpart: "Proveedor Uno",
		Items:       []dto.OrderItemRequest{lineaDe("prod-1", 5, "800")},
	})
	require.NoError(t, err)

	p := store.products["prod-1"]
	assert.Equal(t, int64(15), p.Stock, "la compra debe incrementar el stock")
	assert.True(t, p.CostPrice.Equal(decimal.RequireFromString("800")),
		"la compra sobreescribe el costo con el precio de la última compra")
}

func TestCrearVenta_StockInsuficiente_NoPersisteNada(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 2, "600", "1000")

	_, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf, "vender más unidades de las disponibles debe rechazarse")
	assert.Equal(t, "prod-1", insuf.ProductID, "el error debe identificar el producto ofensor")
	assert.NotEmpty(t, insuf.ProductName)

	assert.Equal(t, int64(2), store.products["prod-1"].Stock, "el stock no debe cambiar")
	assert.Empty(t, store.orders, "no debe persistirse ninguna cabecera")
	assert.Empty(t, store.items, "no debe persistirse ninguna línea")

	// La orden rechazada tampoco consume consecutivo: la siguiente exitosa es la 000001.
	resp, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 1, "1000")},
	})
	require.NoError(t, err)
	assert.Equal(t, "000001", resp.Number)
}

func TestCrearVenta_FallaUnaLinea_RechazaTodas(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	seedProduct(store, "prod-2", empresaA, 1, "300", "500")

	_, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			lineaDe("prod-1", 2, "1000"),
			lineaDe("prod-2", 4, "500"), // excede el stock
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), store.products["prod-1"].Stock,
		"la línea buena también debe revertirse: todo o nada")
	assert.Equal(t, int64(1), store.products["prod-2"].Stock)
	assert.Empty(t, store.orders)
}

func TestConsecutivo_IndependientePorEmpresaYTipo(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-a", empresaA, 100, "600", "1000")
	seedProduct(store, "prod-b", empresaB, 100, "600", "1000")

	venta := func(companyID, productID string) string {
		t.Helper()
		resp, err := uc.Create(context.Background(), companyID, entity.OrderTypeSale, dto.CreateOrderRequest{
			Items: []dto.OrderItemRequest{lineaDe(productID, 1, "1000")},
		})
		require.NoError(t, err)
		return resp.Number
	}

	assert.Equal(t, "000001", venta(empresaA, "prod-a"))
	assert.Equal(t, "000002", venta(empresaA, "prod-a"))
	assert.Equal(t, "000003", venta(empresaA, "prod-a"))

	// La compra de la misma empresa lleva su propia serie.
	compra, err := uc.Create(context.Background(), empresaA, entity.OrderTypePurchase, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-a", 1, "600")},
	})
	require.NoError(t, err)
	assert.Equal(t, "000001", compra.Number)

	// Y cada empresa arranca su serie en 000001.
	assert.Equal(t, "000001", venta(empresaB, "prod-b"))
}

func TestCrearOrden_Totales(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 100, "600", "1000")
	seedProduct(store, "prod-2", empresaA, 100, "300", "500")

	resp, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			lineaDe("prod-1", 2, "1000"), // 2000
			lineaDe("prod-2", 3, "500"),  // 1500
		},
		Discount: decimal.RequireFromString("250"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("3500")),
		"el subtotal debe ser la suma de los subtotales de línea")
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("3250")),
		"el total debe ser subtotal menos descuento")
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Subtotal.Equal(decimal.RequireFromString("2000")))
}

func TestCrearOrden_PrecioCeroUsaElDelCatalogo(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 100, "600", "1000")

	venta, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, venta.Subtotal.Equal(decimal.RequireFromString("2000")),
		"la venta sin precio explícito usa el precio de venta del producto")

	compra, err := uc.Create(context.Background(), empresaA, entity.OrderTypePurchase, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, compra.Subtotal.Equal(decimal.RequireFromString("1200")),
		"la compra sin precio explícito usa el costo actual del producto")
}

func TestCrearOrden_Validaciones(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 100, "600", "1000")
	ctx := context.Background()

	_, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder, "una orden sin líneas debe rechazarse")

	_, err = uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero es inválida")

	_, err = uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items:  []dto.OrderItemRequest{lineaDe("prod-1", 1, "1000")},
		Status: entity.OrderStatusCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus, "una orden no puede nacer CANCELLED")

	_, err = uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items:  []dto.OrderItemRequest{lineaDe("prod-1", 1, "1000")},
		Status: "SHIPPED",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("producto-inexistente", 1, "1000")},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCrearOrden_ProductoDeOtraEmpresa_NoEncontrado(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-b", empresaB, 100, "600", "1000")

	_, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-b", 1, "1000")},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound,
		"un producto de otra empresa responde no encontrado, no prohibido")
}

func TestCrearOrden_ProductoInactivo_NoEncontrado(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 100, "600", "1000")
	store.products["prod-1"].Active = false

	_, err := uc.Create(context.Background(), empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 1, "1000")},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación: reversión exactamente una vez y asimetría venta/compra
// ──────────────────────────────────────────────────────────────────────────────

func TestAnularVenta_RevierteStockExactamenteUnaVez(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), store.products["prod-1"].Stock)

	resp, err := uc.Cancel(ctx, empresaA, entity.OrderTypeSale, venta.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, resp.Status)
	assert.Equal(t, int64(10), store.products["prod-1"].Stock,
		"anular la venta devuelve las unidades al stock")
	assert.False(t, store.orders[venta.ID].StockApplied,
		"tras revertir, el efecto de stock queda desmarcado")
	assert.Equal(t, venta.Number, resp.Number, "la orden anulada conserva su consecutivo")

	// La segunda anulación no debe revertir de nuevo.
	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypeSale, venta.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, int64(10), store.products["prod-1"].Stock,
		"anular dos veces jamás duplica la reversión")
}

func TestAnularCompra_FallaSiLasUnidadesYaSeVendieron(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	compra, err := uc.Create(ctx, empresaA, entity.OrderTypePurchase, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 5, "800")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(15), store.products["prod-1"].Stock)

	// Se venden 12 unidades: quedan 3, menos de las 5 que la compra aportó.
	_, err = uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 12, "1000")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), store.products["prod-1"].Stock)

	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypePurchase, compra.ID)
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf,
		"anular la compra restaría 5 con solo 3 en stock: debe rechazarse")
	assert.Equal(t, "prod-1", insuf.ProductID)

	assert.Equal(t, int64(3), store.products["prod-1"].Stock, "el stock no debe cambiar")
	assert.Equal(t, entity.OrderStatusPending, store.orders[compra.ID].Status,
		"la compra sigue vigente: la anulación fallida no cambia el estado")
	assert.True(t, store.orders[compra.ID].StockApplied)
}

func TestAnularCompra_ProcedeConStockSuficiente(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	compra, err := uc.Create(ctx, empresaA, entity.OrderTypePurchase, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 5, "800")},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypePurchase, compra.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), store.products["prod-1"].Stock,
		"anular la compra resta las unidades que había aportado")
}

func TestAnular_OrdenDeOtraEmpresa_NoEncontrada(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 1, "1000")},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, empresaB, entity.OrderTypeSale, venta.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound,
		"el acceso cruzado entre empresas responde no encontrada")

	// Tampoco es visible bajo el otro tipo de orden.
	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypePurchase, venta.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestAnulacionesConcurrentes_SoloUnaRevierte(t *testing.T) {
	uc, store, runner := newFixtureWithRunner()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), store.products["prod-1"].Stock)

	// Una anulación rival confirma entre la lectura inicial (que vio PENDING)
	// y la transacción de esta anulación: la fila ya queda CANCELLED con el
	// stock devuelto.
	runner.beforeTx = func() {
		o := store.orders[venta.ID]
		o.Status = entity.OrderStatusCancelled
		o.StockApplied = false
		store.products["prod-1"].Stock += 3
	}

	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypeSale, venta.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled,
		"la anulación perdedora debe ver CANCELLED bajo el lock de la fila")
	assert.Equal(t, int64(10), store.products["prod-1"].Stock,
		"la reversión ocurre exactamente una vez aunque dos anulaciones compitan")
	assert.False(t, store.orders[venta.ID].StockApplied)
}

// staleReadOrderRepo deja que una escritura rival confirme inmediatamente
// después de la lectura de la cabecera, de modo que el caso de uso siga
// trabajando con una copia obsoleta.
type staleReadOrderRepo struct {
	*fakeOrderRepo
	afterRead func()
}

func (r *staleReadOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, err := r.fakeOrderRepo.GetByID(id)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return o, err
}

func TestUpdateStatus_NoResucitaUnaAnulacionConcurrente(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	stale := &staleReadOrderRepo{fakeOrderRepo: &fakeOrderRepo{store}}
	uc := orders.NewUseCase(&fakeTxRunner{store: store}, &fakeProductRepo{store}, stale, nil, nil)
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), store.products["prod-1"].Stock)

	// La anulación rival confirma justo después de que la transición leyó la
	// cabecera: la copia leída aún dice PENDING con efecto de stock aplicado.
	stale.afterRead = func() {
		o := store.orders[venta.ID]
		o.Status = entity.OrderStatusCancelled
		o.StockApplied = false
		store.products["prod-1"].Stock += 3
	}

	_, err = uc.UpdateStatus(ctx, empresaA, entity.OrderTypeSale, venta.ID, entity.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled,
		"la transición con lectura obsoleta no debe aplicarse")

	o := store.orders[venta.ID]
	assert.Equal(t, entity.OrderStatusCancelled, o.Status,
		"el estado CANCELLED no se resucita")
	assert.False(t, o.StockApplied,
		"el flag de efecto de stock no se pisa con la copia obsoleta: la reversión no se rearma")
	assert.Equal(t, int64(10), store.products["prod-1"].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición: reemplazo de líneas sin efecto sobre el stock
// ──────────────────────────────────────────────────────────────────────────────

func TestEditarOrden_ReemplazaLineasSinTocarStock(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), store.products["prod-1"].Stock)

	resp, err := uc.Edit(ctx, empresaA, entity.OrderTypeSale, venta.ID, dto.EditOrderRequest{
		Counterpart: "Cliente Editado",
		Items:       []dto.OrderItemRequest{lineaDe("prod-1", 5, "900")},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), store.products["prod-1"].Stock,
		"editar cantidades no ajusta el stock: solo la creación y la anulación lo hacen")
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("4500")),
		"los totales sí se recalculan con las líneas nuevas")
	require.Len(t, store.items[venta.ID], 1, "las líneas se reemplazan completas")
	assert.Equal(t, int64(5), store.items[venta.ID][0].Quantity)
	assert.Equal(t, "Cliente Editado", store.orders[venta.ID].Counterpart)
	assert.Equal(t, venta.Number, resp.Number, "la edición no cambia el consecutivo")
}

func TestEditarOrdenAnulada_Conflicto(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 1, "1000")},
	})
	require.NoError(t, err)
	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypeSale, venta.ID)
	require.NoError(t, err)

	_, err = uc.Edit(ctx, empresaA, entity.OrderTypeSale, venta.ID, dto.EditOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 2, "1000")},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "una orden anulada no admite edición")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transición de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_CompletedNoTocaStock(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})
	require.NoError(t, err)

	resp, err := uc.UpdateStatus(ctx, empresaA, entity.OrderTypeSale, venta.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, resp.Status)
	assert.Equal(t, int64(7), store.products["prod-1"].Stock,
		"PENDING/COMPLETED es informativo: no vuelve a aplicar el efecto de stock")
	assert.True(t, store.orders[venta.ID].StockApplied)

	// Y de vuelta a PENDING, tampoco.
	_, err = uc.UpdateStatus(ctx, empresaA, entity.OrderTypeSale, venta.ID, entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(7), store.products["prod-1"].Stock)
}

func TestUpdateStatus_CancelledDelegaEnLaAnulacion(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 3, "1000")},
	})
	require.NoError(t, err)

	resp, err := uc.UpdateStatus(ctx, empresaA, entity.OrderTypeSale, venta.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, resp.Status)
	assert.Equal(t, int64(10), store.products["prod-1"].Stock,
		"cambiar el estado a CANCELLED revierte el stock igual que la anulación directa")
	assert.False(t, store.orders[venta.ID].StockApplied)
}

func TestUpdateStatus_Validaciones(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 1, "1000")},
	})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, empresaA, entity.OrderTypeSale, venta.ID, "ARCHIVED")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypeSale, venta.ID)
	require.NoError(t, err)

	// CANCELLED es terminal.
	_, err = uc.UpdateStatus(ctx, empresaA, entity.OrderTypeSale, venta.ID, entity.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_EscopadoPorEmpresa(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 2, "1000")},
	})
	require.NoError(t, err)

	resp, err := uc.Get(empresaA, entity.OrderTypeSale, venta.ID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(2), resp.Items[0].Quantity)

	_, err = uc.Get(empresaB, entity.OrderTypeSale, venta.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = uc.Get(empresaA, entity.OrderTypeSale, "orden-inexistente")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDelete_SoloOrdenesAnuladas(t *testing.T) {
	uc, store := newFixture()
	seedProduct(store, "prod-1", empresaA, 10, "600", "1000")
	ctx := context.Background()

	venta, err := uc.Create(ctx, empresaA, entity.OrderTypeSale, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{lineaDe("prod-1", 2, "1000")},
	})
	require.NoError(t, err)

	err = uc.Delete(ctx, empresaA, entity.OrderTypeSale, venta.ID)
	assert.ErrorIs(t, err, domain.ErrConflict,
		"una orden vigente nunca se borra en duro")

	_, err = uc.Cancel(ctx, empresaA, entity.OrderTypeSale, venta.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, empresaA, entity.OrderTypeSale, venta.ID))
	_, ok := store.orders[venta.ID]
	assert.False(t, ok, "la orden anulada sí puede borrarse definitivamente")
	assert.Empty(t, store.items[venta.ID])
}

// ──────────────────────────────────────────────────────────────────────────────
// Formato del consecutivo
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "000001", orders.FormatNumber(1))
	assert.Equal(t, "000042", orders.FormatNumber(42))
	assert.Equal(t, "999999", orders.FormatNumber(999999))
	assert.Equal(t, "1000000", orders.FormatNumber(1000000),
		"más allá del ancho fijo el número crece sin truncarse")
}
