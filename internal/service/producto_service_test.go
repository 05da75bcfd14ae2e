package service

import (
	"context"
	"testing"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearProducto(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, newStubHistorialRepo(), nil)

	barcode := "7750301111111"
	resp, err := svc.Crear(context.Background(), nil, dto.CrearProductoRequest{
		CodigoBarras:    &barcode,
		NombreComercial: "Amoxicilina 500mg x100",
		PrecioCompra:    decimal.NewFromFloat(25.00),
		PrecioVenta:     decimal.NewFromFloat(38.00),
		StockActual:     50,
		StockMinimo:     10,
		StockMaximo:     200,
	})
	require.NoError(t, err)

	assert.Equal(t, "Amoxicilina 500mg x100", resp.NombreComercial)
	require.NotNil(t, resp.CodigoBarras)
	assert.Equal(t, barcode, *resp.CodigoBarras)
	assert.Equal(t, 50, resp.StockActual)
	assert.Equal(t, "Unidad", resp.UnidadMedida)
	assert.True(t, resp.Activo)
}

func TestBusquedaPorBarcode(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, newStubHistorialRepo(), nil)
	seedProducto(repo, "Agua oxigenada 120ml", "7750302222222", 100, 10)

	resp, err := svc.ObtenerPorBarcode(context.Background(), "7750302222222")
	require.NoError(t, err)
	assert.Equal(t, "Agua oxigenada 120ml", resp.NombreComercial)
	assert.Equal(t, 100, resp.StockActual)

	_, err = svc.ObtenerPorBarcode(context.Background(), "9999999999999")
	assert.Error(t, err)
}

func TestActualizarNoTocaStock(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, newStubHistorialRepo(), nil)
	p := seedProducto(repo, "Complejo B x30", "7750303333333", 42, 5)

	nuevoPrecio := decimal.NewFromFloat(19.90)
	nuevoNombre := "Complejo B x60"
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		NombreComercial: &nuevoNombre,
		PrecioVenta:     &nuevoPrecio,
	})
	require.NoError(t, err)

	assert.Equal(t, "Complejo B x60", resp.NombreComercial)
	assert.True(t, resp.PrecioVenta.Equal(nuevoPrecio))
	// El stock solo se mueve por el ledger, nunca por una edición
	assert.Equal(t, 42, resp.StockActual)
	assert.Equal(t, 42, repo.productos[p.ID].StockActual)
}

func TestDesactivarYReactivarProducto(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, newStubHistorialRepo(), nil)
	p := seedProducto(repo, "Salbutamol inhalador", "7750304444444", 8, 3)

	require.NoError(t, svc.Desactivar(context.Background(), p.ID))
	_, err := svc.ObtenerPorBarcode(context.Background(), "7750304444444")
	assert.Error(t, err)

	require.NoError(t, svc.Reactivar(context.Background(), p.ID))
	resp, err := svc.ObtenerPorBarcode(context.Background(), "7750304444444")
	require.NoError(t, err)
	assert.True(t, resp.Activo)
}

func TestConsultaPreciosSinCache(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewConsultaPreciosService(repo, nil) // sin Redis: va directo al repo
	seedProducto(repo, "Enalapril 10mg x30", "7750305555555", 25, 5)

	resp, err := svc.ConsultarPorBarcode(context.Background(), "7750305555555")
	require.NoError(t, err)
	assert.Equal(t, "Enalapril 10mg x30", resp.NombreComercial)
	assert.True(t, resp.PrecioVenta.Equal(decimal.NewFromFloat(15.00)))
	assert.Equal(t, 25, resp.StockDisponible)

	_, err = svc.ConsultarPorBarcode(context.Background(), "0000000000000")
	assert.Error(t, err)
}
