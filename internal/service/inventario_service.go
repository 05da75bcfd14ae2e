package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioService owns the stock ledger. Every stock mutation in the
// system — sales, receptions, adjustments, direct movements — funnels
// through AplicarMovimientoTx so that productos.stock_actual and
// historial_inventario always advance in the same transaction.
type InventarioService interface {
	// AplicarMovimiento registers a direct movement (merma, robo, vencido,
	// donación, devolución…) in its own transaction.
	AplicarMovimiento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error)

	// AplicarMovimientoTx mutates stock and appends the paired ledger row
	// inside the caller's transaction. The product row is read under
	// FOR UPDATE, so concurrent movements against the same product
	// serialize and the stock check cannot race.
	AplicarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo model.TipoMovimiento,
		cantidad int, motivo *string, referenciaID, usuarioID *uuid.UUID) (*model.HistorialInventario, error)

	// AjustarInventario sets an absolute stock value; the signed delta is
	// derived under lock and recorded as AJUSTE_MANUAL.
	AjustarInventario(ctx context.Context, usuarioID *uuid.UUID, req dto.AjusteInventarioRequest) (*dto.MovimientoResponse, error)

	ListarHistorial(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialListResponse, error)

	// ReconstruirStock replays the product's ledger from its first entry
	// (or up to asOf) and returns the resulting stock.
	ReconstruirStock(ctx context.Context, productoID uuid.UUID, asOf *time.Time) (int, error)

	// VerificarConsistencia compares stored stock against the ledger
	// replay. On divergence the report carries Consistente=false and the
	// error is a *CommitParcialError.
	VerificarConsistencia(ctx context.Context, productoID uuid.UUID) (*dto.ConsistenciaResponse, error)

	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	productoRepo  repository.ProductoRepository
	historialRepo repository.HistorialRepository
	retry         RetryPolicy
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	historialRepo repository.HistorialRepository,
	retry RetryPolicy,
) InventarioService {
	return &inventarioService{
		productoRepo:  productoRepo,
		historialRepo: historialRepo,
		retry:         retry,
	}
}

func (s *inventarioService) AplicarMovimiento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	tipo := model.TipoMovimiento(req.TipoMovimiento)
	if !tipo.EsValido() {
		return nil, fmt.Errorf("%w: %q", ErrTipoMovimientoInvalido, req.TipoMovimiento)
	}
	if !tipo.PermiteCantidad(req.Cantidad) {
		return nil, fmt.Errorf("%w: %s con cantidad %d", ErrCantidadIncompatible, tipo, req.Cantidad)
	}

	motivo := req.Motivo
	var entrada *model.HistorialInventario
	err = s.retry.Run(ctx, func() error {
		return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
			var txErr error
			entrada, txErr = s.AplicarMovimientoTx(tx, pid, tipo, req.Cantidad, &motivo, nil, usuarioID)
			return txErr
		})
	})
	if err != nil {
		return nil, err
	}
	return movimientoToResponse(entrada), nil
}

func (s *inventarioService) AplicarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo model.TipoMovimiento,
	cantidad int, motivo *string, referenciaID, usuarioID *uuid.UUID) (*model.HistorialInventario, error) {

	if !tipo.EsValido() {
		return nil, fmt.Errorf("%w: %q", ErrTipoMovimientoInvalido, tipo)
	}
	if !tipo.PermiteCantidad(cantidad) {
		return nil, fmt.Errorf("%w: %s con cantidad %d", ErrCantidadIncompatible, tipo, cantidad)
	}

	p, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
	if err != nil {
		return nil, err
	}

	stockNuevo := p.StockActual + cantidad
	if stockNuevo < 0 {
		return nil, &StockInsuficienteError{
			ProductoID: p.ID,
			Nombre:     p.NombreComercial,
			Disponible: p.StockActual,
			Solicitado: -cantidad,
		}
	}

	if err := s.productoRepo.UpdateStockTx(tx, productoID, cantidad); err != nil {
		return nil, err
	}

	entrada := &model.HistorialInventario{
		ProductoID:     productoID,
		TipoMovimiento: tipo,
		StockAnterior:  p.StockActual,
		Cantidad:       cantidad,
		StockNuevo:     stockNuevo,
		Motivo:         motivo,
		ReferenciaID:   referenciaID,
		UsuarioID:      usuarioID,
	}
	if err := s.historialRepo.CreateTx(tx, entrada); err != nil {
		return nil, err
	}
	entrada.Producto = p
	return entrada, nil
}

func (s *inventarioService) AjustarInventario(ctx context.Context, usuarioID *uuid.UUID, req dto.AjusteInventarioRequest) (*dto.MovimientoResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}

	motivo := req.Motivo
	var entrada *model.HistorialInventario
	err = s.retry.Run(ctx, func() error {
		return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
			// The delta is derived under lock: a concurrent sale between
			// the read and the write would otherwise corrupt the target.
			p, err := s.productoRepo.FindByIDForUpdateTx(tx, pid)
			if err != nil {
				return err
			}
			delta := req.StockNuevo - p.StockActual
			if delta == 0 {
				return ErrAjusteSinCambio
			}

			if err := s.productoRepo.UpdateStockTx(tx, pid, delta); err != nil {
				return err
			}
			entrada = &model.HistorialInventario{
				ProductoID:     pid,
				TipoMovimiento: model.MovimientoAjusteManual,
				StockAnterior:  p.StockActual,
				Cantidad:       delta,
				StockNuevo:     req.StockNuevo,
				Motivo:         &motivo,
				UsuarioID:      usuarioID,
			}
			if err := s.historialRepo.CreateTx(tx, entrada); err != nil {
				return err
			}
			entrada.Producto = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return movimientoToResponse(entrada), nil
}

func (s *inventarioService) ListarHistorial(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialListResponse, error) {
	repoFilter := repository.HistorialFilter{
		TipoMovimiento: model.TipoMovimiento(filter.TipoMovimiento),
		Dias:           filter.Dias,
		Page:           filter.Page,
		Limit:          filter.Limit,
	}
	if filter.ProductoID != "" {
		pid, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		repoFilter.ProductoID = &pid
	}
	if repoFilter.TipoMovimiento != "" && !repoFilter.TipoMovimiento.EsValido() {
		return nil, fmt.Errorf("%w: %q", ErrTipoMovimientoInvalido, filter.TipoMovimiento)
	}

	entradas, total, err := s.historialRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	resp := &dto.HistorialListResponse{
		Data:  make([]dto.MovimientoResponse, len(entradas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range entradas {
		resp.Data[i] = *movimientoToResponse(&entradas[i])
	}
	return resp, nil
}

func (s *inventarioService) ReconstruirStock(ctx context.Context, productoID uuid.UUID, asOf *time.Time) (int, error) {
	entradas, err := s.historialRepo.ListByProductoAsc(ctx, productoID, asOf)
	if err != nil {
		return 0, err
	}
	// The fold starts at the baseline the first entry saw, so a ledger
	// whose history begins at a nonzero stock still replays correctly.
	stock := 0
	if len(entradas) > 0 {
		stock = entradas[0].StockAnterior
	}
	for _, e := range entradas {
		stock += e.Cantidad
	}
	return stock, nil
}

func (s *inventarioService) VerificarConsistencia(ctx context.Context, productoID uuid.UUID) (*dto.ConsistenciaResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	reconstruido, err := s.ReconstruirStock(ctx, productoID, nil)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConsistenciaResponse{
		ProductoID:        productoID.String(),
		StockActual:       p.StockActual,
		StockReconstruido: reconstruido,
		Consistente:       p.StockActual == reconstruido,
	}
	if !resp.Consistente {
		return resp, &CommitParcialError{
			ProductoID:  productoID,
			StockActual: p.StockActual,
			StockLedger: reconstruido,
		}
	}
	return resp, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productoRepo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, len(productos))
	for i, p := range productos {
		alertas[i] = dto.AlertaStockResponse{
			ProductoID:      p.ID.String(),
			NombreComercial: p.NombreComercial,
			StockActual:     p.StockActual,
			StockMinimo:     p.StockMinimo,
		}
	}
	return alertas, nil
}

func movimientoToResponse(e *model.HistorialInventario) *dto.MovimientoResponse {
	resp := &dto.MovimientoResponse{
		ID:             e.ID.String(),
		ProductoID:     e.ProductoID.String(),
		TipoMovimiento: string(e.TipoMovimiento),
		Etiqueta:       e.TipoMovimiento.Etiqueta(),
		Color:          e.TipoMovimiento.Color(),
		StockAnterior:  e.StockAnterior,
		Cantidad:       e.Cantidad,
		StockNuevo:     e.StockNuevo,
		Motivo:         e.Motivo,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if e.Producto != nil {
		resp.Producto = e.Producto.NombreComercial
	}
	if e.ReferenciaID != nil {
		ref := e.ReferenciaID.String()
		resp.ReferenciaID = &ref
	}
	if e.UsuarioID != nil {
		uid := e.UsuarioID.String()
		resp.UsuarioID = &uid
	}
	return resp
}
