package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable pharmacy item. StockActual is only ever mutated
// through the inventory ledger (ventas, compras recibidas, ajustes); its
// value must equal the running sum of cantidad over historial_inventario.
type Producto struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras     *string   `gorm:"uniqueIndex"`
	NombreComercial  string    `gorm:"index;not null"`
	PrincipioActivo  *string
	CategoriaID      *uuid.UUID `gorm:"type:uuid;index"`
	ProveedorID      *uuid.UUID `gorm:"type:uuid;index"`
	Presentacion     *string
	Concentracion    *string
	PrecioCompra     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockActual      int             `gorm:"not null;default:0"`
	StockMinimo      int             `gorm:"not null;default:5"`
	StockMaximo      int             `gorm:"not null;default:100"`
	UnidadMedida     string          `gorm:"not null;default:'Unidad'"`
	Lote             *string
	FechaFabricacion *time.Time
	FechaVencimiento *time.Time `gorm:"index"`
	RequiereReceta   bool       `gorm:"not null;default:false"`
	// MedicamentoControlado flags substances under sanitary control.
	MedicamentoControlado     bool `gorm:"not null;default:false"`
	Ubicacion                 *string
	TemperaturaAlmacenamiento *string
	RegistroSanitario         *string
	Descripcion               *string
	Activo                    bool `gorm:"not null;default:true"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }

// StockBajo reports whether the product is below its minimum threshold.
func (p *Producto) StockBajo() bool { return p.StockActual < p.StockMinimo }

// DiasParaVencer returns the whole days until expiry relative to ref,
// or false when the product carries no expiry date.
func (p *Producto) DiasParaVencer(ref time.Time) (int, bool) {
	if p.FechaVencimiento == nil {
		return 0, false
	}
	return int(p.FechaVencimiento.Sub(ref).Hours() / 24), true
}
