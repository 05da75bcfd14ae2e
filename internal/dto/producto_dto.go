package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras              *string         `json:"codigo_barras"    validate:"omitempty,min=8,max=18"`
	NombreComercial           string          `json:"nombre_comercial" validate:"required,min=2,max=120"`
	PrincipioActivo           *string         `json:"principio_activo"`
	CategoriaID               *string         `json:"categoria_id"     validate:"omitempty,uuid"`
	ProveedorID               *string         `json:"proveedor_id"     validate:"omitempty,uuid"`
	Presentacion              *string         `json:"presentacion"`
	Concentracion             *string         `json:"concentracion"`
	PrecioCompra              decimal.Decimal `json:"precio_compra"    validate:"required"`
	PrecioVenta               decimal.Decimal `json:"precio_venta"     validate:"required"`
	StockActual               int             `json:"stock_actual"     validate:"min=0"`
	StockMinimo               int             `json:"stock_minimo"     validate:"min=0"`
	StockMaximo               int             `json:"stock_maximo"     validate:"min=0"`
	UnidadMedida              string          `json:"unidad_medida"    validate:"omitempty,oneof=Unidad Caja Frasco Blister Sobre"`
	Lote                      *string         `json:"lote"`
	FechaFabricacion          *string         `json:"fecha_fabricacion" validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento          *string         `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	RequiereReceta            bool            `json:"requiere_receta"`
	MedicamentoControlado     bool            `json:"medicamento_controlado"`
	Ubicacion                 *string         `json:"ubicacion"`
	TemperaturaAlmacenamiento *string         `json:"temperatura_almacenamiento" validate:"omitempty,oneof=Ambiente 2-8°C 15-25°C Refrigeración"`
	RegistroSanitario         *string         `json:"registro_sanitario"`
	Descripcion               *string         `json:"descripcion"`
}

type ActualizarProductoRequest struct {
	CodigoBarras              *string          `json:"codigo_barras"    validate:"omitempty,min=8,max=18"`
	NombreComercial           *string          `json:"nombre_comercial" validate:"omitempty,min=2,max=120"`
	PrincipioActivo           *string          `json:"principio_activo"`
	CategoriaID               *string          `json:"categoria_id"     validate:"omitempty,uuid"`
	ProveedorID               *string          `json:"proveedor_id"     validate:"omitempty,uuid"`
	Presentacion              *string          `json:"presentacion"`
	Concentracion             *string          `json:"concentracion"`
	PrecioCompra              *decimal.Decimal `json:"precio_compra"`
	PrecioVenta               *decimal.Decimal `json:"precio_venta"`
	StockMinimo               *int             `json:"stock_minimo"     validate:"omitempty,min=0"`
	StockMaximo               *int             `json:"stock_maximo"     validate:"omitempty,min=0"`
	UnidadMedida              *string          `json:"unidad_medida"    validate:"omitempty,oneof=Unidad Caja Frasco Blister Sobre"`
	Lote                      *string          `json:"lote"`
	FechaFabricacion          *string          `json:"fecha_fabricacion" validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento          *string          `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	RequiereReceta            *bool            `json:"requiere_receta"`
	MedicamentoControlado     *bool            `json:"medicamento_controlado"`
	Ubicacion                 *string          `json:"ubicacion"`
	TemperaturaAlmacenamiento *string          `json:"temperatura_almacenamiento"`
	RegistroSanitario         *string          `json:"registro_sanitario"`
	Descripcion               *string          `json:"descripcion"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Barcode     string `form:"barcode"`
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	ProveedorID string `form:"proveedor_id"`
	// Activo: "" (default) = solo activos, "false" = inactivos, "all" = todos
	Activo    string `form:"activo"`
	StockBajo bool   `form:"stock_bajo"`
	// PorVencerDias limits results to products expiring within N days (0 = off)
	PorVencerDias int `form:"por_vencer_dias" validate:"omitempty,min=0"`
	Page          int `form:"page,default=1"   validate:"min=1"`
	Limit         int `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                    string          `json:"id"`
	CodigoBarras          *string         `json:"codigo_barras"`
	NombreComercial       string          `json:"nombre_comercial"`
	PrincipioActivo       *string         `json:"principio_activo"`
	CategoriaID           *string         `json:"categoria_id"`
	CategoriaNombre       *string         `json:"categoria_nombre"`
	ProveedorID           *string         `json:"proveedor_id"`
	ProveedorNombre       *string         `json:"proveedor_nombre"`
	Presentacion          *string         `json:"presentacion"`
	Concentracion         *string         `json:"concentracion"`
	PrecioCompra          decimal.Decimal `json:"precio_compra"`
	PrecioVenta           decimal.Decimal `json:"precio_venta"`
	StockActual           int             `json:"stock_actual"`
	StockMinimo           int             `json:"stock_minimo"`
	StockMaximo           int             `json:"stock_maximo"`
	UnidadMedida          string          `json:"unidad_medida"`
	Lote                  *string         `json:"lote"`
	FechaVencimiento      *string         `json:"fecha_vencimiento"`
	RequiereReceta        bool            `json:"requiere_receta"`
	MedicamentoControlado bool            `json:"medicamento_controlado"`
	Activo                bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint.
// Stock here is advisory (cached); it must never drive a stock decision.
type ConsultaPreciosResponse struct {
	NombreComercial string          `json:"nombre_comercial"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	StockDisponible int             `json:"stock_disponible"`
	RequiereReceta  bool            `json:"requiere_receta"`
}
