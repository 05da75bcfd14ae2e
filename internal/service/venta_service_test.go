package service

import (
	"context"
	"sync"
	"testing"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	productoRepo  *stubProductoRepo
	historialRepo *stubHistorialRepo
	ventaRepo     *stubVentaRepo
	svc           VentaService
}

func newVentaFixture() *ventaFixture {
	productoRepo := newStubProductoRepo()
	historialRepo := newStubHistorialRepo()
	ventaRepo := newStubVentaRepo()
	configRepo := &stubConfigRepo{cfg: &model.Configuracion{IGV: decimal.NewFromFloat(0.18)}}
	inv := NewInventarioService(productoRepo, historialRepo, testRetry())
	return &ventaFixture{
		productoRepo:  productoRepo,
		historialRepo: historialRepo,
		ventaRepo:     ventaRepo,
		svc:           NewVentaService(ventaRepo, productoRepo, configRepo, inv, testRetry()),
	}
}

func TestRegistrarVentaMultilinea(t *testing.T) {
	f := newVentaFixture()
	p1 := seedProducto(f.productoRepo, "Paracetamol 500mg", "7750101111111", 100, 10)
	p2 := seedProducto(f.productoRepo, "Jarabe para la tos 120ml", "7750102222222", 50, 5)

	usuario := uuid.New()
	resp, err := f.svc.RegistrarVenta(context.Background(), usuario, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Productos: []dto.LineaVentaRequest{
			{ProductoID: p1.ID.String(), Cantidad: 2, PrecioUnitario: decimal.NewFromFloat(50.00)},
			{ProductoID: p2.ID.String(), Cantidad: 1, PrecioUnitario: decimal.NewFromFloat(18.00)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "V-000001", resp.NumeroVenta)
	assert.Equal(t, model.VentaCompletada, resp.Estado)
	require.Len(t, resp.Productos, 2)

	// Total = Σ subtotales; el IGV se desglosa del total (tasa 18%)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(118.00)), "total = %s", resp.Total)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(100.00)), "subtotal = %s", resp.Subtotal)
	assert.True(t, resp.IGV.Equal(decimal.NewFromFloat(18.00)), "igv = %s", resp.IGV)

	// El stock bajó y cada línea tiene su fila VENTA apuntando a la venta
	assert.Equal(t, 98, f.productoRepo.productos[p1.ID].StockActual)
	assert.Equal(t, 49, f.productoRepo.productos[p2.ID].StockActual)

	ventaID := uuid.MustParse(resp.ID)
	for _, pid := range []uuid.UUID{p1.ID, p2.ID} {
		entradas := f.historialRepo.porProducto(pid)
		require.Len(t, entradas, 1)
		assert.Equal(t, model.MovimientoVenta, entradas[0].TipoMovimiento)
		require.NotNil(t, entradas[0].ReferenciaID)
		assert.Equal(t, ventaID, *entradas[0].ReferenciaID)
		require.NotNil(t, entradas[0].Motivo)
		assert.Equal(t, "Venta V-000001", *entradas[0].Motivo)
	}
}

func TestRegistrarVentaUsaPrecioDeLista(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Gasa estéril 10x10", "7750103333333", 30, 5)

	// Sin precio explícito rige el precio de venta del producto (15.00)
	resp, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPago: "Tarjeta",
		Productos: []dto.LineaVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(45.00)), "total = %s", resp.Total)
	assert.True(t, resp.Productos[0].PrecioUnitario.Equal(decimal.NewFromFloat(15.00)))
}

func TestRegistrarVentaSinStockNoDejaRastro(t *testing.T) {
	f := newVentaFixture()
	p1 := seedProducto(f.productoRepo, "Alcohol 70° 1L", "7750104444444", 100, 10)
	p2 := seedProducto(f.productoRepo, "Mascarilla KN95", "7750105555555", 2, 5)

	_, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Productos: []dto.LineaVentaRequest{
			{ProductoID: p1.ID.String(), Cantidad: 1},
			{ProductoID: p2.ID.String(), Cantidad: 10},
		},
	})

	var stockErr *StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p2.ID, stockErr.ProductoID)

	// Todo o nada: ninguna línea se aplicó
	assert.Equal(t, 100, f.productoRepo.productos[p1.ID].StockActual)
	assert.Equal(t, 2, f.productoRepo.productos[p2.ID].StockActual)
	assert.Empty(t, f.historialRepo.porProducto(p1.ID))
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Producto retirado", "7750106666666", 10, 2)
	p.Activo = false

	_, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Productos: []dto.LineaVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 1},
		},
	})
	assert.ErrorIs(t, err, ErrProductoInactivo)
}

func TestAnularVentaRestauraStock(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Diclofenaco gel 60g", "7750107777777", 100, 10)

	usuario := uuid.New()
	resp, err := f.svc.RegistrarVenta(context.Background(), usuario, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Productos: []dto.LineaVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 98, f.productoRepo.productos[p.ID].StockActual)

	ventaID := uuid.MustParse(resp.ID)
	require.NoError(t, f.svc.AnularVenta(context.Background(), ventaID, usuario, "Cliente devolvió el producto"))

	// El stock vuelve y la anulación queda como DEVOLUCION; la fila VENTA
	// original no se toca
	assert.Equal(t, 100, f.productoRepo.productos[p.ID].StockActual)
	entradas := f.historialRepo.porProducto(p.ID)
	require.Len(t, entradas, 2)
	assert.Equal(t, model.MovimientoVenta, entradas[0].TipoMovimiento)
	assert.Equal(t, -2, entradas[0].Cantidad)
	assert.Equal(t, model.MovimientoDevolucion, entradas[1].TipoMovimiento)
	assert.Equal(t, 2, entradas[1].Cantidad)
	require.NotNil(t, entradas[1].Motivo)
	assert.Contains(t, *entradas[1].Motivo, "Anulación venta V-000001")

	anulada, err := f.svc.ObtenerPorID(context.Background(), ventaID)
	require.NoError(t, err)
	assert.Equal(t, model.VentaAnulada, anulada.Estado)

	// Anular dos veces no duplica la devolución
	err = f.svc.AnularVenta(context.Background(), ventaID, usuario, "Reintento")
	assert.ErrorIs(t, err, ErrVentaYaAnulada)
	assert.Equal(t, 100, f.productoRepo.productos[p.ID].StockActual)
}

func TestAnulacionesConcurrentesMismaVenta(t *testing.T) {
	f := newVentaFixture()
	p := seedProducto(f.productoRepo, "Omeprazol 20mg x14", "7750108888888", 100, 10)

	usuario := uuid.New()
	resp, err := f.svc.RegistrarVenta(context.Background(), usuario, dto.RegistrarVentaRequest{
		MetodoPago: "Efectivo",
		Productos: []dto.LineaVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 98, f.productoRepo.productos[p.ID].StockActual)

	// Con el lock de fila activo, dos anulaciones simultáneas se
	// serializan: solo una pasa el chequeo de estado
	f.ventaRepo.bloquearFilas = true
	ventaID := uuid.MustParse(resp.ID)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.AnularVenta(context.Background(), ventaID, usuario, "Anulación concurrente")
		}(i)
	}
	wg.Wait()

	var exitos, rechazos int
	for _, err := range errs {
		if err == nil {
			exitos++
			continue
		}
		require.ErrorIs(t, err, ErrVentaYaAnulada)
		rechazos++
	}
	assert.Equal(t, 1, exitos)
	assert.Equal(t, 1, rechazos)

	// El stock se restaura una sola vez y hay exactamente una DEVOLUCION
	assert.Equal(t, 100, f.productoRepo.productos[p.ID].StockActual)
	entradas := f.historialRepo.porProducto(p.ID)
	require.Len(t, entradas, 2)
	assert.Equal(t, model.MovimientoVenta, entradas[0].TipoMovimiento)
	assert.Equal(t, model.MovimientoDevolucion, entradas[1].TipoMovimiento)
}

func TestDesglosarIGV(t *testing.T) {
	// Tasa configurada
	repo := &stubConfigRepo{cfg: &model.Configuracion{IGV: decimal.NewFromFloat(0.10)}}
	base, igv := desglosarIGV(context.Background(), repo, decimal.NewFromFloat(110.00))
	assert.True(t, base.Equal(decimal.NewFromFloat(100.00)), "base = %s", base)
	assert.True(t, igv.Equal(decimal.NewFromFloat(10.00)), "igv = %s", igv)

	// Sin fila de configuración rige el 18%
	base, igv = desglosarIGV(context.Background(), &stubConfigRepo{}, decimal.NewFromFloat(118.00))
	assert.True(t, base.Equal(decimal.NewFromFloat(100.00)), "base = %s", base)
	assert.True(t, igv.Equal(decimal.NewFromFloat(18.00)), "igv = %s", igv)

	// base + igv == total incluso cuando la división no es exacta
	total := decimal.NewFromFloat(9.99)
	base, igv = desglosarIGV(context.Background(), &stubConfigRepo{}, total)
	assert.True(t, base.Add(igv).Equal(total))
}
