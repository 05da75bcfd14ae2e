package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional sale counterparty; walk-in sales carry no cliente.
type Cliente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DNI             *string   `gorm:"column:dni;uniqueIndex"`
	Nombre          string    `gorm:"not null"`
	Apellido        *string
	Telefono        *string
	Email           *string
	Direccion       *string
	FechaNacimiento *time.Time
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Cliente) TableName() string { return "clientes" }
