package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstadisticasInventario(t *testing.T) {
	productoRepo := newStubProductoRepo()
	svc := NewReporteService(newStubVentaRepo(), productoRepo, nil)

	seedProducto(productoRepo, "Producto A", "7750401111111", 10, 5) // 10 × 10.00
	seedProducto(productoRepo, "Producto B", "7750402222222", 5, 8)  // 5 × 10.00, stock bajo
	inactivo := seedProducto(productoRepo, "Producto C", "7750403333333", 99, 5)
	inactivo.Activo = false

	venc := time.Now().AddDate(0, 0, 12)
	porVencer := seedProducto(productoRepo, "Producto D", "7750404444444", 3, 1)
	porVencer.FechaVencimiento = &venc

	resp, err := svc.EstadisticasInventario(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalProductos)
	assert.Equal(t, int64(1), resp.ProductosStockBajo)
	assert.Equal(t, int64(1), resp.ProductosPorVencer)
	// (10 + 5 + 3) × precio de compra 10.00
	assert.Equal(t, "180", resp.ValorInventario.String())
	require.Len(t, resp.PorVencer, 1)
	assert.Equal(t, "Producto D", resp.PorVencer[0].NombreComercial)
	assert.LessOrEqual(t, resp.PorVencer[0].DiasParaVencer, 12)
}

func TestEnviarDigestStockBajo(t *testing.T) {
	productoRepo := newStubProductoRepo()
	spy := &mailerSpy{}
	svc := NewReporteService(newStubVentaRepo(), productoRepo, spy)

	seedProducto(productoRepo, "Con stock", "7750405555555", 50, 5)
	seedProducto(productoRepo, "Agotándose", "7750406666666", 2, 10)
	seedProducto(productoRepo, "Crítico", "7750407777777", 0, 4)

	enviados, err := svc.EnviarDigestStockBajo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, enviados)
	require.Len(t, spy.asuntos, 1)
	assert.Contains(t, spy.asuntos[0], "2 producto(s)")
	assert.Contains(t, spy.cuerpos[0], "Agotándose")
	assert.Contains(t, spy.cuerpos[0], "Crítico")
}

func TestDigestSinStockBajoNoEnvia(t *testing.T) {
	productoRepo := newStubProductoRepo()
	spy := &mailerSpy{}
	svc := NewReporteService(newStubVentaRepo(), productoRepo, spy)
	seedProducto(productoRepo, "Todo en orden", "7750408888888", 50, 5)

	enviados, err := svc.EnviarDigestStockBajo(context.Background())
	require.NoError(t, err)
	assert.Zero(t, enviados)
	assert.Empty(t, spy.asuntos)
}
