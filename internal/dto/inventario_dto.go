package dto

// ─── Requests ────────────────────────────────────────────────────────────────

// MovimientoManualRequest registers a direct stock movement (merma, robo,
// vencido, donación…). Cantidad is the signed delta.
type MovimientoManualRequest struct {
	ProductoID     string `json:"producto_id"     validate:"required,uuid"`
	TipoMovimiento string `json:"tipo_movimiento" validate:"required"`
	Cantidad       int    `json:"cantidad"        validate:"required"`
	Motivo         string `json:"motivo"          validate:"required,min=3,max=200"`
}

// AjusteInventarioRequest sets the absolute stock of a product; the
// service derives the signed delta for the AJUSTE_MANUAL ledger entry.
type AjusteInventarioRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	StockNuevo int    `json:"stock_nuevo" validate:"min=0"`
	Motivo     string `json:"motivo"      validate:"required,min=3,max=200"`
}

type HistorialFilter struct {
	ProductoID     string `form:"producto_id"`
	TipoMovimiento string `form:"tipo_movimiento"`
	Dias           int    `form:"dias,default=30"   validate:"min=0"`
	Limit          int    `form:"limit,default=500" validate:"min=1,max=1000"`
	Page           int    `form:"page,default=1"    validate:"min=1"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID             string  `json:"id"`
	ProductoID     string  `json:"producto_id"`
	Producto       string  `json:"producto"`
	TipoMovimiento string  `json:"tipo_movimiento"`
	Etiqueta       string  `json:"etiqueta"`
	Color          string  `json:"color"`
	StockAnterior  int     `json:"stock_anterior"`
	Cantidad       int     `json:"cantidad"`
	StockNuevo     int     `json:"stock_nuevo"`
	Motivo         *string `json:"motivo"`
	ReferenciaID   *string `json:"referencia_id"`
	UsuarioID      *string `json:"usuario_id"`
	CreatedAt      string  `json:"created_at"`
}

type HistorialListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ConsistenciaResponse is the result of the ledger audit for one product.
type ConsistenciaResponse struct {
	ProductoID        string `json:"producto_id"`
	StockActual       int    `json:"stock_actual"`
	StockReconstruido int    `json:"stock_reconstruido"`
	Consistente       bool   `json:"consistente"`
}

type AlertaStockResponse struct {
	ProductoID      string `json:"producto_id"`
	NombreComercial string `json:"nombre_comercial"`
	StockActual     int    `json:"stock_actual"`
	StockMinimo     int    `json:"stock_minimo"`
}
