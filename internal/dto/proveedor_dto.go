package dto

import "github.com/google/uuid"

type CrearProveedorRequest struct {
	Nombre         string  `json:"nombre" validate:"required,min=2,max=120"`
	RUC            *string `json:"ruc"    validate:"omitempty,len=11,numeric"`
	Telefono       *string `json:"telefono"`
	Email          *string `json:"email"  validate:"omitempty,email"`
	Direccion      *string `json:"direccion"`
	ContactoNombre *string `json:"contacto_nombre"`
}

type ActualizarProveedorRequest struct {
	Nombre         *string `json:"nombre" validate:"omitempty,min=2,max=120"`
	RUC            *string `json:"ruc"    validate:"omitempty,len=11,numeric"`
	Telefono       *string `json:"telefono"`
	Email          *string `json:"email"  validate:"omitempty,email"`
	Direccion      *string `json:"direccion"`
	ContactoNombre *string `json:"contacto_nombre"`
	Activo         *bool   `json:"activo"`
}

type ProveedorResponse struct {
	ID             uuid.UUID `json:"id"`
	Nombre         string    `json:"nombre"`
	RUC            *string   `json:"ruc"`
	Telefono       *string   `json:"telefono"`
	Email          *string   `json:"email"`
	Direccion      *string   `json:"direccion"`
	ContactoNombre *string   `json:"contacto_nombre"`
	Activo         bool      `json:"activo"`
}
