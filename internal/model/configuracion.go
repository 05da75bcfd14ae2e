package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Configuracion holds single-row pharmacy settings (fiscal data and the
// IGV rate applied to sale totals).
type Configuracion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreFarmacia *string
	RUC            *string `gorm:"column:ruc"`
	Direccion      *string
	Telefono       *string
	Email          *string
	LogoURL        *string
	// IGV is the tax rate as a fraction, e.g. 0.18 for 18%.
	IGV       decimal.Decimal `gorm:"column:igv;type:decimal(5,4);not null;default:0.18"`
	Moneda    string          `gorm:"not null;default:'PEN'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Configuracion) TableName() string { return "configuracion" }
