package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	ObtenerPorDNI(ctx context.Context, dni string) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		DNI:       req.DNI,
		Nombre:    req.Nombre,
		Apellido:  req.Apellido,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if req.FechaNacimiento != nil && *req.FechaNacimiento != "" {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_nacimiento inválida: %w", err)
		}
		c.FechaNacimiento = &fecha
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorDNI(ctx context.Context, dni string) (*dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorDNI(ctx, dni)
	if err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.Listar(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = *clienteToResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DNI != nil {
		c.DNI = req.DNI
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		c.Apellido = req.Apellido
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.FechaNacimiento != nil && *req.FechaNacimiento != "" {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_nacimiento inválida: %w", err)
		}
		c.FechaNacimiento = &fecha
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Actualizar(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	resp := &dto.ClienteResponse{
		ID:        c.ID,
		DNI:       c.DNI,
		Nombre:    c.Nombre,
		Apellido:  c.Apellido,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Activo:    c.Activo,
	}
	if c.FechaNacimiento != nil {
		fecha := c.FechaNacimiento.Format("2006-01-02")
		resp.FechaNacimiento = &fecha
	}
	return resp
}
