package model

// TipoMovimiento is the closed vocabulary of stock movement kinds.
// It is defined once here; ledger validation and any UI label/color
// mapping derive from this table instead of per-view switches.
type TipoMovimiento string

const (
	MovimientoCompra       TipoMovimiento = "COMPRA"
	MovimientoVenta        TipoMovimiento = "VENTA"
	MovimientoAjusteManual TipoMovimiento = "AJUSTE_MANUAL"
	MovimientoDevolucion   TipoMovimiento = "DEVOLUCION"
	MovimientoVencido      TipoMovimiento = "VENCIDO"
	MovimientoDanado       TipoMovimiento = "DAÑADO"
	MovimientoRobo         TipoMovimiento = "ROBO"
	MovimientoMerma        TipoMovimiento = "MERMA"
	MovimientoDonacion     TipoMovimiento = "DONACION"
)

// movimientoInfo carries presentation metadata and the sign constraint
// for each movement kind. Signo: +1 = entrada only, -1 = salida only,
// 0 = either direction (adjustments).
type movimientoInfo struct {
	Etiqueta string
	Color    string
	Signo    int
}

var movimientos = map[TipoMovimiento]movimientoInfo{
	MovimientoCompra:       {"Compra", "green", +1},
	MovimientoVenta:        {"Venta", "blue", -1},
	MovimientoAjusteManual: {"Ajuste manual", "yellow", 0},
	MovimientoDevolucion:   {"Devolución", "teal", +1},
	MovimientoVencido:      {"Vencido", "orange", -1},
	MovimientoDanado:       {"Dañado", "red", -1},
	MovimientoRobo:         {"Robo", "red", -1},
	MovimientoMerma:        {"Merma", "gray", -1},
	MovimientoDonacion:     {"Donación", "purple", -1},
}

// EsValido reports whether t belongs to the closed movement set.
func (t TipoMovimiento) EsValido() bool {
	_, ok := movimientos[t]
	return ok
}

// PermiteCantidad reports whether a signed delta is compatible with the
// movement semantics (VENTA must decrease stock, COMPRA must increase it,
// AJUSTE_MANUAL may go either way).
func (t TipoMovimiento) PermiteCantidad(cantidad int) bool {
	info, ok := movimientos[t]
	if !ok {
		return false
	}
	switch info.Signo {
	case +1:
		return cantidad > 0
	case -1:
		return cantidad < 0
	default:
		return cantidad != 0
	}
}

func (t TipoMovimiento) Etiqueta() string { return movimientos[t].Etiqueta }
func (t TipoMovimiento) Color() string    { return movimientos[t].Color }

// TiposMovimiento lists every valid movement kind, for validation messages
// and API metadata endpoints.
func TiposMovimiento() []TipoMovimiento {
	return []TipoMovimiento{
		MovimientoCompra, MovimientoVenta, MovimientoAjusteManual,
		MovimientoDevolucion, MovimientoVencido, MovimientoDanado,
		MovimientoRobo, MovimientoMerma, MovimientoDonacion,
	}
}
