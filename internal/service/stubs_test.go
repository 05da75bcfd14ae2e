package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto

	// bloquearFilas emula el SELECT … FOR UPDATE de Postgres:
	// FindByIDForUpdateTx retiene el lock de fila y UpdateStockTx lo
	// libera (commit). Un movimiento rechazado lo retiene hasta el final
	// del test, igual que un rollback pendiente.
	bloquearFilas bool
	filaMu        sync.Mutex
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	return r.Create(context.Background(), p)
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.productos {
		if p.CodigoBarras != nil && *p.CodigoBarras == barcode && p.Activo {
			copia := *p
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	if r.bloquearFilas {
		r.filaMu.Lock()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual += delta
	if r.bloquearFilas {
		r.filaMu.Unlock()
	}
	return nil
}

func (r *stubProductoRepo) UpdateLoteTx(_ *gorm.DB, id uuid.UUID, lote *string, fechaVencimiento *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if lote != nil {
		p.Lote = lote
	}
	if fechaVencimiento != nil {
		p.FechaVencimiento = fechaVencimiento
	}
	return nil
}

func (r *stubProductoRepo) ListStockBajo(_ context.Context) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.StockBajo() {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) ListPorVencer(_ context.Context, dias int) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limite := time.Now().AddDate(0, 0, dias)
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.FechaVencimiento != nil &&
			p.FechaVencimiento.After(time.Now()) && p.FechaVencimiento.Before(limite) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) CountActivos(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, p := range r.productos {
		if p.Activo {
			total++
		}
	}
	return total, nil
}

func (r *stubProductoRepo) ValorInventario(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, p := range r.productos {
		if p.Activo {
			total = total.Add(p.PrecioCompra.Mul(decimal.NewFromInt(int64(p.StockActual))))
		}
	}
	return total, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── In-memory HistorialRepository stub ───────────────────────────────────────

type stubHistorialRepo struct {
	mu       sync.Mutex
	entradas []model.HistorialInventario
}

func newStubHistorialRepo() *stubHistorialRepo { return &stubHistorialRepo{} }

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialInventario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	copia := *h
	copia.Producto = nil
	r.entradas = append(r.entradas, copia)
	return nil
}

func (r *stubHistorialRepo) List(_ context.Context, filter repository.HistorialFilter) ([]model.HistorialInventario, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.HistorialInventario
	for i := len(r.entradas) - 1; i >= 0; i-- {
		e := r.entradas[i]
		if filter.ProductoID != nil && e.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.TipoMovimiento != "" && e.TipoMovimiento != filter.TipoMovimiento {
			continue
		}
		result = append(result, e)
	}
	return result, int64(len(result)), nil
}

func (r *stubHistorialRepo) ListByProductoAsc(_ context.Context, productoID uuid.UUID, asOf *time.Time) ([]model.HistorialInventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.HistorialInventario
	for _, e := range r.entradas {
		if e.ProductoID != productoID {
			continue
		}
		if asOf != nil && e.CreatedAt.After(*asOf) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// porProducto devuelve las entradas de un producto en orden de inserción.
func (r *stubHistorialRepo) porProducto(id uuid.UUID) []model.HistorialInventario {
	entradas, _ := r.ListByProductoAsc(context.Background(), id, nil)
	return entradas
}

var _ repository.HistorialRepository = (*stubHistorialRepo)(nil)

// ── In-memory VentaRepository stub ───────────────────────────────────────────

type stubVentaRepo struct {
	mu     sync.Mutex
	ventas map[uuid.UUID]*model.Venta
	seq    int64

	// bloquearFilas emula el FOR UPDATE sobre la fila de la venta:
	// FindByIDForUpdateTx retiene el lock y UpdateEstadoTx lo libera
	// (commit). Una anulación rechazada lo retiene hasta el final del
	// test, igual que un rollback pendiente.
	bloquearFilas bool
	filaMu        sync.Mutex
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Detalles {
		if v.Detalles[i].ID == uuid.Nil {
			v.Detalles[i].ID = uuid.New()
		}
		v.Detalles[i].VentaID = v.ID
	}
	copia := *v
	r.ventas[v.ID] = &copia
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *v
	return &copia, nil
}

func (r *stubVentaRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	if r.bloquearFilas {
		r.filaMu.Lock()
	}
	return r.FindByID(context.Background(), id)
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	if r.bloquearFilas {
		r.filaMu.Unlock()
	}
	return nil
}

func (r *stubVentaRepo) NextNumero(_ *gorm.DB) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("V-%06d", r.seq), nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Venta
	for _, v := range r.ventas {
		result = append(result, *v)
	}
	return result, int64(len(result)), nil
}

func (r *stubVentaRepo) SumTotalDesde(_ context.Context, desde time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, v := range r.ventas {
		if v.Estado == model.VentaCompletada && !v.CreatedAt.Before(desde) {
			total = total.Add(v.Total)
		}
	}
	return total, nil
}

func (r *stubVentaRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, v := range r.ventas {
		if v.Estado == model.VentaCompletada {
			total++
		}
	}
	return total, nil
}

func (r *stubVentaRepo) TotalesPorMes(_ context.Context, _ int) ([]dto.VentasPorMes, error) {
	return nil, nil
}

func (r *stubVentaRepo) TopProductos(_ context.Context, _ int) ([]dto.ProductoVendido, error) {
	return nil, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── In-memory CompraRepository stub ──────────────────────────────────────────

type stubCompraRepo struct {
	mu      sync.Mutex
	compras map[uuid.UUID]*model.Compra
	seq     int64
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) CreateTx(_ *gorm.DB, c *model.Compra) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Detalles {
		if c.Detalles[i].ID == uuid.Nil {
			c.Detalles[i].ID = uuid.New()
		}
		c.Detalles[i].CompraID = c.ID
	}
	copia := *c
	r.compras[c.ID] = &copia
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubCompraRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCompraRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.compras[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Estado = estado
	return nil
}

func (r *stubCompraRepo) NextNumero(_ *gorm.DB) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("C-%06d", r.seq), nil
}

func (r *stubCompraRepo) List(_ context.Context, _ dto.CompraFilter) ([]model.Compra, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Compra
	for _, c := range r.compras {
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── ConfiguracionRepository stub ─────────────────────────────────────────────

type stubConfigRepo struct {
	cfg *model.Configuracion
}

func (r *stubConfigRepo) Obtener(_ context.Context) (*model.Configuracion, error) {
	if r.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.cfg, nil
}

func (r *stubConfigRepo) Guardar(_ context.Context, c *model.Configuracion) error {
	r.cfg = c
	return nil
}

var _ repository.ConfiguracionRepository = (*stubConfigRepo)(nil)

// ── Mailer spy ───────────────────────────────────────────────────────────────

type mailerSpy struct {
	asuntos []string
	cuerpos []string
}

func (m *mailerSpy) Enviar(asunto, cuerpoHTML string) error {
	m.asuntos = append(m.asuntos, asunto)
	m.cuerpos = append(m.cuerpos, cuerpoHTML)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre, barcode string, stock, stockMin int) *model.Producto {
	p := &model.Producto{
		ID:              uuid.New(),
		CodigoBarras:    &barcode,
		NombreComercial: nombre,
		PrecioCompra:    decimal.NewFromFloat(10.00),
		PrecioVenta:     decimal.NewFromFloat(15.00),
		StockActual:     stock,
		StockMinimo:     stockMin,
		StockMaximo:     100,
		UnidadMedida:    "Unidad",
		Activo:          true,
	}
	repo.productos[p.ID] = p
	return p
}

func testRetry() RetryPolicy { return RetryPolicy{Intentos: 3, Base: time.Millisecond} }
