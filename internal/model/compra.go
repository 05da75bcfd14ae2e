package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de compra. PENDIENTE → {COMPLETADA, ANULADA}; both terminal.
// Stock increases only on the transition into COMPLETADA (recepción de
// mercadería), never at creation time.
const (
	CompraPendiente  = "PENDIENTE"
	CompraCompletada = "COMPLETADA"
	CompraAnulada    = "ANULADA"
)

// Compra is a supplier purchase order / goods receipt.
type Compra struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroCompra string          `gorm:"uniqueIndex;not null"`
	ProveedorID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IGV          decimal.Decimal `gorm:"column:igv;type:decimal(10,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Estado       string          `gorm:"not null;default:'PENDIENTE'"`
	FechaEntrega *time.Time
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorID"`
	Detalles  []DetalleCompra `gorm:"foreignKey:CompraID"`
}

func (Compra) TableName() string { return "compras" }

// DetalleCompra is one received line; Lote and FechaVencimiento, when
// present, are copied onto the product at reception time.
type DetalleCompra struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad         int             `gorm:"not null"`
	PrecioUnitario   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Lote             *string
	FechaVencimiento *time.Time
	CreatedAt        time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleCompra) TableName() string { return "detalle_compras" }
