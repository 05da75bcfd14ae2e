package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// StockInsuficienteError aborts any outbound movement that would leave a
// product with negative stock. The whole enclosing transaction rolls back,
// so a multi-line sale either commits completely or not at all.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	Nombre     string
	Disponible int
	Solicitado int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d",
		e.Nombre, e.Disponible, e.Solicitado)
}

// CommitParcialError reports that the stored stock of a product no longer
// matches the replay of its ledger. Inside a transaction this cannot
// happen; it surfaces from the consistency audit when an out-of-band
// write touched productos without its paired historial_inventario row.
type CommitParcialError struct {
	ProductoID  uuid.UUID
	StockActual int
	StockLedger int
}

func (e *CommitParcialError) Error() string {
	return fmt.Sprintf("inconsistencia de inventario en producto %s: stock_actual=%d, ledger=%d",
		e.ProductoID, e.StockActual, e.StockLedger)
}

var (
	ErrTipoMovimientoInvalido = errors.New("tipo de movimiento inválido")
	ErrCantidadIncompatible   = errors.New("la cantidad no es compatible con el tipo de movimiento")
	ErrAjusteSinCambio        = errors.New("el stock ya tiene ese valor, no hay nada que ajustar")
	ErrProductoInactivo       = errors.New("el producto está inactivo")
	ErrVentaYaAnulada         = errors.New("la venta ya está anulada")
	ErrCompraNoPendiente      = errors.New("solo una compra PENDIENTE puede recibirse o anularse")
	ErrCredencialesInvalidas  = errors.New("credenciales inválidas")
)
