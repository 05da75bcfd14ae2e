package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type LineaVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

type RegistrarVentaRequest struct {
	ClienteID  *string             `json:"cliente_id"  validate:"omitempty,uuid"`
	MetodoPago string              `json:"metodo_pago" validate:"required,oneof=Efectivo Tarjeta Transferencia"`
	Productos  []LineaVentaRequest `json:"productos"   validate:"required,min=1,dive"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3,max=200"`
}

type VentaFilter struct {
	Estado    string `form:"estado"` // COMPLETADA | ANULADA | all
	Desde     string `form:"desde"`  // YYYY-MM-DD
	Hasta     string `form:"hasta"`
	ClienteID string `form:"cliente_id"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type LineaVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID            string               `json:"id"`
	NumeroVenta   string               `json:"numero_venta"`
	ClienteID     *string              `json:"cliente_id"`
	ClienteNombre *string              `json:"cliente_nombre"`
	Productos     []LineaVentaResponse `json:"productos"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	IGV           decimal.Decimal      `json:"igv"`
	Total         decimal.Decimal      `json:"total"`
	MetodoPago    *string              `json:"metodo_pago"`
	Estado        string               `json:"estado"`
	CreatedAt     string               `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
