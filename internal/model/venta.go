package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de venta. COMPLETADA → ANULADA is the only transition; an
// annulled sale stays annulled.
const (
	VentaCompletada = "COMPLETADA"
	VentaAnulada    = "ANULADA"
)

// Venta groups one or more product lines sold in a single POS operation.
// Total equals the sum of line subtotals; IGV is the tax portion broken
// out of that total using the rate in configuracion.
type Venta struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroVenta string          `gorm:"uniqueIndex;not null"`
	ClienteID   *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IGV         decimal.Decimal `gorm:"column:igv;type:decimal(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MetodoPago  *string
	Estado      string     `gorm:"not null;default:'COMPLETADA'"`
	UsuarioID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one product/quantity/price line of a sale.
// Subtotal = Cantidad × PrecioUnitario, fixed at sale time.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalle_ventas" }
