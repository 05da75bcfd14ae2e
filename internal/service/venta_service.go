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

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, motivo string) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	configRepo   repository.ConfiguracionRepository
	inventario   InventarioService
	retry        RetryPolicy
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	configRepo repository.ConfiguracionRepository,
	inventario InventarioService,
	retry RetryPolicy,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		configRepo:   configRepo,
		inventario:   inventario,
		retry:        retry,
	}
}

// RegistrarVenta executes the full sale protocol:
//  1. Resolve products and prices, pre-flight stock check (outside TX)
//  2. BEGIN TX: nextval numero, create venta + detalles
//  3. Per line: lock product, re-check stock, discount it, append
//     the VENTA ledger row
//  4. COMMIT — any line failure rolls back the entire sale
//
// The pre-flight check gives a fast, friendly rejection; the in-TX check
// under FOR UPDATE is the one that holds under concurrency.
func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	var clienteID *uuid.UUID
	if req.ClienteID != nil && *req.ClienteID != "" {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		clienteID = &cid
	}

	type resolvedLine struct {
		productoID uuid.UUID
		nombre     string
		cantidad   int
		precio     decimal.Decimal
		subtotal   decimal.Decimal
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
		if !p.Activo {
			return nil, fmt.Errorf("%w: %s", ErrProductoInactivo, p.NombreComercial)
		}
		if p.StockActual < linea.Cantidad {
			return nil, &StockInsuficienteError{
				ProductoID: p.ID,
				Nombre:     p.NombreComercial,
				Disponible: p.StockActual,
				Solicitado: linea.Cantidad,
			}
		}

		// Price fixed at sale time: an explicit unit price wins,
		// otherwise the product's list price applies.
		precio := linea.PrecioUnitario
		if precio.IsZero() {
			precio = p.PrecioVenta
		}
		subtotal := precio.Mul(decimal.NewFromInt(int64(linea.Cantidad)))
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedLine{
			productoID: pid,
			nombre:     p.NombreComercial,
			cantidad:   linea.Cantidad,
			precio:     precio,
			subtotal:   subtotal,
		})
	}

	base, igv := desglosarIGV(ctx, s.configRepo, total)
	metodo := req.MetodoPago

	var venta model.Venta
	err := s.retry.Run(ctx, func() error {
		venta = model.Venta{}
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			numero, err := s.repo.NextNumero(tx)
			if err != nil {
				return err
			}
			venta = model.Venta{
				NumeroVenta: numero,
				ClienteID:   clienteID,
				Subtotal:    base,
				IGV:         igv,
				Total:       total,
				MetodoPago:  &metodo,
				Estado:      model.VentaCompletada,
				UsuarioID:   &usuarioID,
			}
			for _, r := range resolved {
				venta.Detalles = append(venta.Detalles, model.DetalleVenta{
					ProductoID:     r.productoID,
					Cantidad:       r.cantidad,
					PrecioUnitario: r.precio,
					Subtotal:       r.subtotal,
				})
			}
			if err := s.repo.CreateTx(tx, &venta); err != nil {
				return err
			}

			uid := usuarioID
			ref := venta.ID
			for _, r := range resolved {
				motivo := fmt.Sprintf("Venta %s", numero)
				if _, err := s.inventario.AplicarMovimientoTx(
					tx, r.productoID, model.MovimientoVenta, -r.cantidad, &motivo, &ref, &uid,
				); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	resp := ventaToResponse(&venta)
	for i, r := range resolved {
		resp.Productos[i].Producto = r.nombre
	}
	return resp, nil
}

// AnularVenta flips the sale to ANULADA and restores the sold stock with
// one DEVOLUCION ledger entry per line, all in one transaction. The
// original VENTA entries stay untouched: the ledger records history, it
// never rewrites it.
func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, motivo string) error {
	return s.retry.Run(ctx, func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			// The venta row itself is locked, so two concurrent
			// annulments serialize and the second fails the estado check
			// instead of restoring the stock twice.
			venta, err := s.repo.FindByIDForUpdateTx(tx, id)
			if err != nil {
				return err
			}
			if venta.Estado != model.VentaCompletada {
				return ErrVentaYaAnulada
			}
			if err := s.repo.UpdateEstadoTx(tx, id, model.VentaAnulada); err != nil {
				return err
			}
			uid := usuarioID
			ref := venta.ID
			motivoLedger := fmt.Sprintf("Anulación venta %s: %s", venta.NumeroVenta, motivo)
			for _, d := range venta.Detalles {
				if _, err := s.inventario.AplicarMovimientoTx(
					tx, d.ProductoID, model.MovimientoDevolucion, d.Cantidad, &motivoLedger, &ref, &uid,
				); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.VentaListResponse{
		Data:  make([]dto.VentaResponse, len(ventas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range ventas {
		resp.Data[i] = *ventaToResponse(&ventas[i])
	}
	return resp, nil
}

// desglosarIGV splits a tax-inclusive total into base + IGV using the
// configured rate. A missing configuracion row falls back to 18%.
func desglosarIGV(ctx context.Context, repo repository.ConfiguracionRepository, total decimal.Decimal) (base, igv decimal.Decimal) {
	rate := decimal.NewFromFloat(0.18)
	if repo != nil {
		if cfg, err := repo.Obtener(ctx); err == nil {
			rate = cfg.IGV
		}
	}
	base = total.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	igv = total.Sub(base)
	return base, igv
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:          v.ID.String(),
		NumeroVenta: v.NumeroVenta,
		Subtotal:    v.Subtotal,
		IGV:         v.IGV,
		Total:       v.Total,
		MetodoPago:  v.MetodoPago,
		Estado:      v.Estado,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
	}
	if v.ClienteID != nil {
		cid := v.ClienteID.String()
		resp.ClienteID = &cid
	}
	if v.Cliente != nil {
		nombre := v.Cliente.Nombre
		if v.Cliente.Apellido != nil {
			nombre += " " + *v.Cliente.Apellido
		}
		resp.ClienteNombre = &nombre
	}
	for _, d := range v.Detalles {
		linea := dto.LineaVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			linea.Producto = d.Producto.NombreComercial
		}
		resp.Productos = append(resp.Productos, linea)
	}
	return resp
}
