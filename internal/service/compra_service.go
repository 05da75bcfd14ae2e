package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	// RegistrarCompra creates the purchase in PENDIENTE. No stock moves:
	// merchandise that has not arrived is not inventory.
	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)

	// RecibirCompra marks the goods as received: state goes to COMPLETADA
	// and every line enters stock with its COMPRA ledger row, in one
	// transaction. Lote and fecha_vencimiento on a line are copied to the
	// product.
	RecibirCompra(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.CompraResponse, error)

	// AnularCompra cancels a PENDIENTE purchase. A received purchase can
	// no longer be annulled; stock corrections go through ajustes.
	AnularCompra(ctx context.Context, id uuid.UUID) error

	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
}

type compraService struct {
	repo         repository.CompraRepository
	productoRepo repository.ProductoRepository
	configRepo   repository.ConfiguracionRepository
	inventario   InventarioService
	retry        RetryPolicy
}

func NewCompraService(
	repo repository.CompraRepository,
	productoRepo repository.ProductoRepository,
	configRepo repository.ConfiguracionRepository,
	inventario InventarioService,
	retry RetryPolicy,
) CompraService {
	return &compraService{
		repo:         repo,
		productoRepo: productoRepo,
		configRepo:   configRepo,
		inventario:   inventario,
		retry:        retry,
	}
}

func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	provID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}

	var fechaEntrega *time.Time
	if req.FechaEntrega != nil && *req.FechaEntrega != "" {
		fecha, err := time.Parse("2006-01-02", *req.FechaEntrega)
		if err != nil {
			return nil, fmt.Errorf("fecha_entrega inválida: %w", err)
		}
		fechaEntrega = &fecha
	}

	type resolvedLine struct {
		productoID       uuid.UUID
		nombre           string
		cantidad         int
		precio           decimal.Decimal
		subtotal         decimal.Decimal
		lote             *string
		fechaVencimiento *time.Time
	}

	resolved := make([]resolvedLine, 0, len(req.Productos))
	total := decimal.Zero
	for _, linea := range req.Productos {
		pid, err := uuid.Parse(linea.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", linea.ProductoID)
		}

		precio := linea.PrecioUnitario
		if precio.IsZero() {
			precio = p.PrecioCompra
		}
		subtotal := precio.Mul(decimal.NewFromInt(int64(linea.Cantidad)))
		total = total.Add(subtotal)

		var fechaVenc *time.Time
		if linea.FechaVencimiento != nil && *linea.FechaVencimiento != "" {
			fecha, err := time.Parse("2006-01-02", *linea.FechaVencimiento)
			if err != nil {
				return nil, fmt.Errorf("fecha_vencimiento inválida: %w", err)
			}
			fechaVenc = &fecha
		}

		resolved = append(resolved, resolvedLine{
			productoID:       pid,
			nombre:           p.NombreComercial,
			cantidad:         linea.Cantidad,
			precio:           precio,
			subtotal:         subtotal,
			lote:             linea.Lote,
			fechaVencimiento: fechaVenc,
		})
	}

	base, igv := desglosarIGV(ctx, s.configRepo, total)

	var compra model.Compra
	err = s.retry.Run(ctx, func() error {
		compra = model.Compra{}
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			numero, err := s.repo.NextNumero(tx)
			if err != nil {
				return err
			}
			compra = model.Compra{
				NumeroCompra: numero,
				ProveedorID:  provID,
				Subtotal:     base,
				IGV:          igv,
				Total:        total,
				Estado:       model.CompraPendiente,
				FechaEntrega: fechaEntrega,
				UsuarioID:    &usuarioID,
			}
			for _, r := range resolved {
				compra.Detalles = append(compra.Detalles, model.DetalleCompra{
					ProductoID:       r.productoID,
					Cantidad:         r.cantidad,
					PrecioUnitario:   r.precio,
					Subtotal:         r.subtotal,
					Lote:             r.lote,
					FechaVencimiento: r.fechaVencimiento,
				})
			}
			return s.repo.CreateTx(tx, &compra)
		})
	})
	if err != nil {
		return nil, err
	}

	resp := compraToResponse(&compra)
	for i, r := range resolved {
		resp.Productos[i].Producto = r.nombre
	}
	return resp, nil
}

func (s *compraService) RecibirCompra(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID) (*dto.CompraResponse, error) {
	err := s.retry.Run(ctx, func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			// The compra row itself is locked, so a second operator
			// confirming the same reception blocks and then fails the
			// estado check instead of doubling the stock.
			compra, err := s.repo.FindByIDForUpdateTx(tx, id)
			if err != nil {
				return err
			}
			if compra.Estado != model.CompraPendiente {
				return ErrCompraNoPendiente
			}

			uid := usuarioID
			ref := compra.ID
			motivo := fmt.Sprintf("Recepción compra %s", compra.NumeroCompra)
			for _, d := range compra.Detalles {
				if _, err := s.inventario.AplicarMovimientoTx(
					tx, d.ProductoID, model.MovimientoCompra, d.Cantidad, &motivo, &ref, &uid,
				); err != nil {
					return err
				}
				if d.Lote != nil || d.FechaVencimiento != nil {
					if err := s.productoRepo.UpdateLoteTx(tx, d.ProductoID, d.Lote, d.FechaVencimiento); err != nil {
						return err
					}
				}
			}
			return s.repo.UpdateEstadoTx(tx, id, model.CompraCompletada)
		})
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *compraService) AnularCompra(ctx context.Context, id uuid.UUID) error {
	return s.retry.Run(ctx, func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			compra, err := s.repo.FindByIDForUpdateTx(tx, id)
			if err != nil {
				return err
			}
			if compra.Estado != model.CompraPendiente {
				return ErrCompraNoPendiente
			}
			return s.repo.UpdateEstadoTx(tx, id, model.CompraAnulada)
		})
	})
}

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return compraToResponse(compra), nil
}

func (s *compraService) Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CompraListResponse{
		Data:  make([]dto.CompraResponse, len(compras)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range compras {
		resp.Data[i] = *compraToResponse(&compras[i])
	}
	return resp, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	resp := &dto.CompraResponse{
		ID:           c.ID.String(),
		NumeroCompra: c.NumeroCompra,
		ProveedorID:  c.ProveedorID.String(),
		Subtotal:     c.Subtotal,
		IGV:          c.IGV,
		Total:        c.Total,
		Estado:       c.Estado,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
	if c.Proveedor != nil {
		resp.ProveedorNombre = c.Proveedor.Nombre
	}
	if c.FechaEntrega != nil {
		fecha := c.FechaEntrega.Format("2006-01-02")
		resp.FechaEntrega = &fecha
	}
	for _, d := range c.Detalles {
		linea := dto.LineaCompraResponse{
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
			Lote:           d.Lote,
		}
		if d.Producto != nil {
			linea.Producto = d.Producto.NombreComercial
		}
		if d.FechaVencimiento != nil {
			fecha := d.FechaVencimiento.Format("2006-01-02")
			linea.FechaVencimiento = &fecha
		}
		resp.Productos = append(resp.Productos, linea)
	}
	return resp
}
