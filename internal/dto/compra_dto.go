package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type LineaCompraRequest struct {
	ProductoID       string          `json:"producto_id"       validate:"required,uuid"`
	Cantidad         int             `json:"cantidad"          validate:"required,gt=0"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"   validate:"min=0"`
	Lote             *string         `json:"lote"`
	FechaVencimiento *string         `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type RegistrarCompraRequest struct {
	ProveedorID  string               `json:"proveedor_id"  validate:"required,uuid"`
	FechaEntrega *string              `json:"fecha_entrega" validate:"omitempty,datetime=2006-01-02"`
	Productos    []LineaCompraRequest `json:"productos"     validate:"required,min=1,dive"`
}

type CompraFilter struct {
	Estado      string `form:"estado"` // PENDIENTE | COMPLETADA | ANULADA | all
	ProveedorID string `form:"proveedor_id"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type LineaCompraResponse struct {
	ProductoID       string          `json:"producto_id"`
	Producto         string          `json:"producto"`
	Cantidad         int             `json:"cantidad"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Lote             *string         `json:"lote"`
	FechaVencimiento *string         `json:"fecha_vencimiento"`
}

type CompraResponse struct {
	ID              string                `json:"id"`
	NumeroCompra    string                `json:"numero_compra"`
	ProveedorID     string                `json:"proveedor_id"`
	ProveedorNombre string                `json:"proveedor_nombre"`
	Productos       []LineaCompraResponse `json:"productos"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	IGV             decimal.Decimal       `json:"igv"`
	Total           decimal.Decimal       `json:"total"`
	Estado          string                `json:"estado"`
	FechaEntrega    *string               `json:"fecha_entrega"`
	CreatedAt       string                `json:"created_at"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
