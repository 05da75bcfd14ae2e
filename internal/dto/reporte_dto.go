package dto

import "github.com/shopspring/decimal"

type VentasPorMes struct {
	Mes   string          `json:"mes"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type ProductoVendido struct {
	ProductoID      string          `json:"producto_id"`
	NombreComercial string          `json:"nombre_comercial"`
	CantidadVendida int             `json:"cantidad_vendida"`
	TotalVendido    decimal.Decimal `json:"total_vendido"`
}

type EstadisticasVentasResponse struct {
	TotalVentas  int64             `json:"total_ventas"`
	VentasHoy    decimal.Decimal   `json:"ventas_hoy"`
	VentasSemana decimal.Decimal   `json:"ventas_semana"`
	VentasMes    decimal.Decimal   `json:"ventas_mes"`
	PorMes       []VentasPorMes    `json:"por_mes"`
	MasVendidos  []ProductoVendido `json:"mas_vendidos"`
}

type ProductoPorVencer struct {
	ProductoID       string `json:"producto_id"`
	NombreComercial  string `json:"nombre_comercial"`
	FechaVencimiento string `json:"fecha_vencimiento"`
	DiasParaVencer   int    `json:"dias_para_vencer"`
	StockActual      int    `json:"stock_actual"`
}

type EstadisticasInventarioResponse struct {
	TotalProductos     int64                 `json:"total_productos"`
	ProductosStockBajo int64                 `json:"productos_stock_bajo"`
	ProductosPorVencer int64                 `json:"productos_por_vencer"`
	ValorInventario    decimal.Decimal       `json:"valor_inventario"`
	StockBajo          []AlertaStockResponse `json:"stock_bajo"`
	PorVencer          []ProductoPorVencer   `json:"por_vencer"`
}
