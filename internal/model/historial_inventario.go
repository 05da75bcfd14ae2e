package model

import (
	"time"

	"github.com/google/uuid"
)

// HistorialInventario is the append-only stock ledger. Rows are never
// updated or deleted once written; replaying all rows of a product from
// its creation reconstructs StockActual.
//
// Invariant per row: StockNuevo == StockAnterior + Cantidad.
type HistorialInventario struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	TipoMovimiento TipoMovimiento `gorm:"type:varchar(20);not null"`
	StockAnterior  int            `gorm:"not null"`
	Cantidad       int            `gorm:"not null"` // signed delta: positive = entrada, negative = salida
	StockNuevo     int            `gorm:"not null"`
	Motivo         *string
	// ReferenciaID links the entry to the venta or compra that produced it.
	ReferenciaID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (HistorialInventario) TableName() string { return "historial_inventario" }
