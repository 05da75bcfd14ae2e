package dto

import "github.com/google/uuid"

type CrearClienteRequest struct {
	DNI             *string `json:"dni"    validate:"omitempty,len=8,numeric"`
	Nombre          string  `json:"nombre" validate:"required,min=2,max=80"`
	Apellido        *string `json:"apellido"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"  validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarClienteRequest struct {
	DNI             *string `json:"dni"    validate:"omitempty,len=8,numeric"`
	Nombre          *string `json:"nombre" validate:"omitempty,min=2,max=80"`
	Apellido        *string `json:"apellido"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"  validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Activo          *bool   `json:"activo"`
}

type ClienteResponse struct {
	ID              uuid.UUID `json:"id"`
	DNI             *string   `json:"dni"`
	Nombre          string    `json:"nombre"`
	Apellido        *string   `json:"apellido"`
	Telefono        *string   `json:"telefono"`
	Email           *string   `json:"email"`
	Direccion       *string   `json:"direccion"`
	FechaNacimiento *string   `json:"fecha_nacimiento"`
	Activo          bool      `json:"activo"`
}
