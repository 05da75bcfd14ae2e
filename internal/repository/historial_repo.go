package repository

import (
	"context"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialFilter narrows ledger listings. Dias limits to the last N days
// (0 = no window).
type HistorialFilter struct {
	ProductoID     *uuid.UUID
	TipoMovimiento model.TipoMovimiento
	Dias           int
	Page           int
	Limit          int
}

// HistorialRepository is append-only by construction: there is no update
// or delete method, matching the ledger's immutability guarantee.
type HistorialRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialInventario) error
	List(ctx context.Context, filter HistorialFilter) ([]model.HistorialInventario, int64, error)
	// ListByProductoAsc returns every entry of a product in chronological
	// order up to asOf (nil = now), for stock reconstruction.
	ListByProductoAsc(ctx context.Context, productoID uuid.UUID, asOf *time.Time) ([]model.HistorialInventario, error)
}

type historialRepo struct{ db *gorm.DB }

func NewHistorialRepository(db *gorm.DB) HistorialRepository { return &historialRepo{db: db} }

func (r *historialRepo) CreateTx(tx *gorm.DB, h *model.HistorialInventario) error {
	return tx.Create(h).Error
}

func (r *historialRepo) List(ctx context.Context, filter HistorialFilter) ([]model.HistorialInventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.HistorialInventario{}).Preload("Producto")

	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.TipoMovimiento != "" {
		q = q.Where("tipo_movimiento = ?", filter.TipoMovimiento)
	}
	if filter.Dias > 0 {
		desde := time.Now().AddDate(0, 0, -filter.Dias)
		q = q.Where("created_at >= ?", desde)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 1000 {
		limit = 500
	}
	offset := (page - 1) * limit

	var entradas []model.HistorialInventario
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entradas).Error
	return entradas, total, err
}

func (r *historialRepo) ListByProductoAsc(ctx context.Context, productoID uuid.UUID, asOf *time.Time) ([]model.HistorialInventario, error) {
	q := r.db.WithContext(ctx).Where("producto_id = ?", productoID)
	if asOf != nil {
		q = q.Where("created_at <= ?", *asOf)
	}
	var entradas []model.HistorialInventario
	err := q.Order("created_at ASC").Find(&entradas).Error
	return entradas, err
}
