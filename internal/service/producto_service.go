package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo          repository.ProductoRepository
	historialRepo repository.HistorialRepository
	rdb           *redis.Client
}

func NewProductoService(
	repo repository.ProductoRepository,
	historialRepo repository.HistorialRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{repo: repo, historialRepo: historialRepo, rdb: rdb}
}

// Crear inserts the product and, when it arrives with initial stock,
// seeds the ledger with an AJUSTE_MANUAL entry in the same transaction.
// Without that seed the ledger replay could never reproduce stock_actual.
func (s *productoService) Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		CodigoBarras:              req.CodigoBarras,
		NombreComercial:           req.NombreComercial,
		PrincipioActivo:           req.PrincipioActivo,
		Presentacion:              req.Presentacion,
		Concentracion:             req.Concentracion,
		PrecioCompra:              req.PrecioCompra,
		PrecioVenta:               req.PrecioVenta,
		StockActual:               req.StockActual,
		StockMinimo:               req.StockMinimo,
		StockMaximo:               req.StockMaximo,
		UnidadMedida:              req.UnidadMedida,
		Lote:                      req.Lote,
		RequiereReceta:            req.RequiereReceta,
		MedicamentoControlado:     req.MedicamentoControlado,
		Ubicacion:                 req.Ubicacion,
		TemperaturaAlmacenamiento: req.TemperaturaAlmacenamiento,
		RegistroSanitario:         req.RegistroSanitario,
		Descripcion:               req.Descripcion,
		Activo:                    true,
	}
	if p.UnidadMedida == "" {
		p.UnidadMedida = "Unidad"
	}

	if req.CategoriaID != nil && *req.CategoriaID != "" {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = &cid
	}
	if req.ProveedorID != nil && *req.ProveedorID != "" {
		provID, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id inválido: %w", err)
		}
		p.ProveedorID = &provID
	}
	if req.FechaFabricacion != nil && *req.FechaFabricacion != "" {
		fecha, err := time.Parse("2006-01-02", *req.FechaFabricacion)
		if err != nil {
			return nil, fmt.Errorf("fecha_fabricacion inválida: %w", err)
		}
		p.FechaFabricacion = &fecha
	}
	if req.FechaVencimiento != nil && *req.FechaVencimiento != "" {
		fecha, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_vencimiento inválida: %w", err)
		}
		p.FechaVencimiento = &fecha
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			return s.repo.Create(ctx, p)
		}
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		if req.StockActual > 0 {
			motivo := "Stock inicial"
			return s.historialRepo.CreateTx(tx, &model.HistorialInventario{
				ProductoID:     p.ID,
				TipoMovimiento: model.MovimientoAjusteManual,
				StockAnterior:  0,
				Cantidad:       req.StockActual,
				StockNuevo:     req.StockActual,
				Motivo:         &motivo,
				UsuarioID:      usuarioID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data[i] = *productoToResponse(&productos[i])
	}
	if filter.Limit > 0 {
		resp.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	return resp, nil
}

// Actualizar never touches StockActual: stock only moves through the
// inventory ledger (ajustes, ventas, compras).
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CodigoBarras != nil {
		s.invalidarPrecioCache(ctx, p)
		p.CodigoBarras = req.CodigoBarras
	}
	if req.NombreComercial != nil {
		p.NombreComercial = *req.NombreComercial
	}
	if req.PrincipioActivo != nil {
		p.PrincipioActivo = req.PrincipioActivo
	}
	if req.CategoriaID != nil {
		if *req.CategoriaID == "" {
			p.CategoriaID = nil
		} else {
			cid, err := uuid.Parse(*req.CategoriaID)
			if err != nil {
				return nil, fmt.Errorf("categoria_id inválido: %w", err)
			}
			p.CategoriaID = &cid
		}
	}
	if req.ProveedorID != nil {
		if *req.ProveedorID == "" {
			p.ProveedorID = nil
		} else {
			provID, err := uuid.Parse(*req.ProveedorID)
			if err != nil {
				return nil, fmt.Errorf("proveedor_id inválido: %w", err)
			}
			p.ProveedorID = &provID
		}
	}
	if req.Presentacion != nil {
		p.Presentacion = req.Presentacion
	}
	if req.Concentracion != nil {
		p.Concentracion = req.Concentracion
	}
	if req.PrecioCompra != nil {
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
		s.invalidarPrecioCache(ctx, p)
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.StockMaximo != nil {
		p.StockMaximo = *req.StockMaximo
	}
	if req.UnidadMedida != nil {
		p.UnidadMedida = *req.UnidadMedida
	}
	if req.Lote != nil {
		p.Lote = req.Lote
	}
	if req.FechaFabricacion != nil && *req.FechaFabricacion != "" {
		fecha, err := time.Parse("2006-01-02", *req.FechaFabricacion)
		if err != nil {
			return nil, fmt.Errorf("fecha_fabricacion inválida: %w", err)
		}
		p.FechaFabricacion = &fecha
	}
	if req.FechaVencimiento != nil && *req.FechaVencimiento != "" {
		fecha, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_vencimiento inválida: %w", err)
		}
		p.FechaVencimiento = &fecha
	}
	if req.RequiereReceta != nil {
		p.RequiereReceta = *req.RequiereReceta
	}
	if req.MedicamentoControlado != nil {
		p.MedicamentoControlado = *req.MedicamentoControlado
	}
	if req.Ubicacion != nil {
		p.Ubicacion = req.Ubicacion
	}
	if req.TemperaturaAlmacenamiento != nil {
		p.TemperaturaAlmacenamiento = req.TemperaturaAlmacenamiento
	}
	if req.RegistroSanitario != nil {
		p.RegistroSanitario = req.RegistroSanitario
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if p, err := s.repo.FindByID(ctx, id); err == nil {
		s.invalidarPrecioCache(ctx, p)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

// invalidarPrecioCache drops the cached price entry. Best-effort: the
// cache is advisory and carries its own TTL.
func (s *productoService) invalidarPrecioCache(ctx context.Context, p *model.Producto) {
	if s.rdb == nil || p.CodigoBarras == nil {
		return
	}
	if err := s.rdb.Del(ctx, precioCacheKey(*p.CodigoBarras)).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("no se pudo invalidar cache de precios")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:                    p.ID.String(),
		CodigoBarras:          p.CodigoBarras,
		NombreComercial:       p.NombreComercial,
		PrincipioActivo:       p.PrincipioActivo,
		Presentacion:          p.Presentacion,
		Concentracion:         p.Concentracion,
		PrecioCompra:          p.PrecioCompra,
		PrecioVenta:           p.PrecioVenta,
		StockActual:           p.StockActual,
		StockMinimo:           p.StockMinimo,
		StockMaximo:           p.StockMaximo,
		UnidadMedida:          p.UnidadMedida,
		Lote:                  p.Lote,
		RequiereReceta:        p.RequiereReceta,
		MedicamentoControlado: p.MedicamentoControlado,
		Activo:                p.Activo,
	}
	if p.CategoriaID != nil {
		cid := p.CategoriaID.String()
		resp.CategoriaID = &cid
	}
	if p.Categoria != nil {
		resp.CategoriaNombre = &p.Categoria.Nombre
	}
	if p.ProveedorID != nil {
		provID := p.ProveedorID.String()
		resp.ProveedorID = &provID
	}
	if p.Proveedor != nil {
		resp.ProveedorNombre = &p.Proveedor.Nombre
	}
	if p.FechaVencimiento != nil {
		fecha := p.FechaVencimiento.Format("2006-01-02")
		resp.FechaVencimiento = &fecha
	}
	return resp
}
