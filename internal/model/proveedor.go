package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents a supplier with commercial contact data.
type Proveedor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string    `gorm:"not null"`
	RUC            *string   `gorm:"column:ruc;uniqueIndex"`
	Telefono       *string
	Email          *string
	Direccion      *string
	ContactoNombre *string
	Activo         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Productos []Producto `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }
