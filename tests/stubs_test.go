package tests

import (
	"context"
	"sort"
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/dto"
	"github.com/comercial2hermanos/sistema-c2h/internal/model"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Tx parameters are always nil in unit tests —
// services run the transaction body directly against these maps.

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	refs      map[uuid.UUID]int64
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos: make(map[uuid.UUID]*model.Producto),
		refs:      make(map[uuid.UUID]int64),
	}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListAll(ctx context.Context) ([]model.Producto, error) {
	out, _, _ := r.List(ctx, dto.ProductoFilter{})
	return out, nil
}

func (r *stubProductoRepo) ListStockBajo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.StockBajo() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) CountReferencias(_ context.Context, id uuid.UUID) (int64, error) {
	return r.refs[id], nil
}

func (r *stubProductoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual = p.StockActual.Add(delta)
	return nil
}

func (r *stubProductoRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PrecioCosto = costo
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// seedProducto registers a product with the given stock and returns it.
func seedProducto(r *stubProductoRepo, nombre, codigo string, stock int64, granel bool) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Codigo:      codigo,
		Nombre:      nombre,
		EsGranel:    granel,
		PrecioCosto: decimal.NewFromFloat(10),
		PrecioVenta: decimal.NewFromFloat(15),
		StockActual: decimal.NewFromInt(stock),
		StockMinimo: decimal.NewFromInt(5),
	}
	r.productos[p.ID] = p
	return p
}

// ── ClienteRepository ────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
	ventas   map[uuid.UUID]int64
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{
		clientes: make(map[uuid.UUID]*model.Cliente),
		ventas:   make(map[uuid.UUID]int64),
	}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) FindByRucCedula(_ context.Context, ruc string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.RucCedula == ruc {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

func (r *stubClienteRepo) CountVentas(_ context.Context, id uuid.UUID) (int64, error) {
	return r.ventas[id], nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func seedCliente(r *stubClienteRepo, nombre, ruc string) *model.Cliente {
	c := &model.Cliente{ID: uuid.New(), Nombre: nombre, RucCedula: ruc}
	r.clientes[c.ID] = c
	return c
}

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	total := int64(len(out))
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *stubVentaRepo) ListCreditosPendientes(_ context.Context) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.MetodoPago == model.MetodoCredito && !v.Pagado {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubVentaRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) UpdatePagadoTx(_ *gorm.DB, id uuid.UUID, pagado bool) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Pagado = pagado
	return nil
}

func (r *stubVentaRepo) SumTotalPorMetodo(_ context.Context, _ *gorm.DB, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, v := range r.ventas {
		if v.CreatedAt.After(desde) && !v.CreatedAt.After(hasta) {
			sums[v.MetodoPago] = sums[v.MetodoPago].Add(v.Total)
		}
	}
	return sums, nil
}

func (r *stubVentaRepo) CountEnVentana(_ context.Context, _ *gorm.DB, desde, hasta time.Time) (int64, error) {
	var n int64
	for _, v := range r.ventas {
		if v.CreatedAt.After(desde) && !v.CreatedAt.After(hasta) {
			n++
		}
	}
	return n, nil
}

func (r *stubVentaRepo) ReporteRango(_ context.Context, desde, hasta string) (map[string]decimal.Decimal, int64, error) {
	sums := make(map[string]decimal.Decimal)
	var n int64
	for _, v := range r.ventas {
		d := v.CreatedAt.Format("2006-01-02")
		if d >= desde && d <= hasta {
			sums[v.MetodoPago] = sums[v.MetodoPago].Add(v.Total)
			n++
		}
	}
	return sums, n, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── AbonoRepository ──────────────────────────────────────────────────────────

// stubAbonoRepo appends abonos directly onto the venta so that balance
// recomputation sees them, mirroring the Abonos preload.
type stubAbonoRepo struct {
	ventaRepo *stubVentaRepo
	abonos    []model.Abono
}

func newStubAbonoRepo(ventaRepo *stubVentaRepo) *stubAbonoRepo {
	return &stubAbonoRepo{ventaRepo: ventaRepo}
}

func (r *stubAbonoRepo) CreateTx(_ *gorm.DB, a *model.Abono) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.abonos = append(r.abonos, *a)
	if v, ok := r.ventaRepo.ventas[a.VentaID]; ok {
		v.Abonos = append(v.Abonos, *a)
	}
	return nil
}

func (r *stubAbonoRepo) ListByVenta(_ context.Context, ventaID uuid.UUID) ([]model.Abono, error) {
	var out []model.Abono
	for _, a := range r.abonos {
		if a.VentaID == ventaID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAbonoRepo) SumEnVentana(_ context.Context, _ *gorm.DB, desde, hasta time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.abonos {
		if a.CreatedAt.After(desde) && !a.CreatedAt.After(hasta) {
			total = total.Add(a.Monto)
		}
	}
	return total, nil
}

var _ repository.AbonoRepository = (*stubAbonoRepo)(nil)

// ── CompraRepository ─────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) Create(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompraRepo) List(_ context.Context, _, _ int) ([]model.Compra, int64, error) {
	out := make([]model.Compra, 0, len(r.compras))
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── GastoRepository ──────────────────────────────────────────────────────────

type stubGastoRepo struct {
	gastos []model.Gasto
}

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	r.gastos = append(r.gastos, *g)
	return nil
}

func (r *stubGastoRepo) List(_ context.Context, _, _ int) ([]model.Gasto, int64, error) {
	return r.gastos, int64(len(r.gastos)), nil
}

func (r *stubGastoRepo) SumEnVentana(_ context.Context, _ *gorm.DB, desde, hasta time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, g := range r.gastos {
		if g.CreatedAt.After(desde) && !g.CreatedAt.After(hasta) {
			total = total.Add(g.Monto)
		}
	}
	return total, nil
}

var _ repository.GastoRepository = (*stubGastoRepo)(nil)

// ── CierreRepository ─────────────────────────────────────────────────────────

type stubCierreRepo struct {
	cierres []*model.CierreCaja
}

func (r *stubCierreRepo) CreateTx(_ *gorm.DB, c *model.CierreCaja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cierres = append(r.cierres, c)
	return nil
}

func (r *stubCierreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	for _, c := range r.cierres {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCierreRepo) FindUltimo(_ context.Context, _ *gorm.DB) (*model.CierreCaja, error) {
	if len(r.cierres) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	ultimo := r.cierres[0]
	for _, c := range r.cierres[1:] {
		if c.FechaCierre.After(ultimo.FechaCierre) {
			ultimo = c
		}
	}
	return ultimo, nil
}

func (r *stubCierreRepo) FindAnterior(_ context.Context, fecha time.Time) (*model.CierreCaja, error) {
	var anterior *model.CierreCaja
	for _, c := range r.cierres {
		if c.FechaCierre.Before(fecha) && (anterior == nil || c.FechaCierre.After(anterior.FechaCierre)) {
			anterior = c
		}
	}
	if anterior == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return anterior, nil
}

func (r *stubCierreRepo) List(_ context.Context, _, _ int) ([]model.CierreCaja, int64, error) {
	out := make([]model.CierreCaja, 0, len(r.cierres))
	for _, c := range r.cierres {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCierreRepo) LockCierresTx(_ *gorm.DB) error { return nil }

func (r *stubCierreRepo) DB() *gorm.DB { return nil }

var _ repository.CierreRepository = (*stubCierreRepo)(nil)

// ── Audit repositories ───────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

type stubHistorialRepo struct {
	entradas []model.HistorialPrecio
}

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.entradas = append(r.entradas, *h)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error) {
	var out []model.HistorialPrecio
	for _, h := range r.entradas {
		if h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, nil
}

var _ repository.HistorialPrecioRepository = (*stubHistorialRepo)(nil)
