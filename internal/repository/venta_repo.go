package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDForUpdateTx locks the venta row so two concurrent
	// annulments cannot both pass the estado check.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	NextNumero(tx *gorm.DB) (string, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)

	// Reporting
	SumTotalDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error)
	Count(ctx context.Context) (int64, error)
	TotalesPorMes(ctx context.Context, meses int) ([]dto.VentasPorMes, error)
	TopProductos(ctx context.Context, limit int) ([]dto.ProductoVendido, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Detalles.Producto").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Detalles").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

// NextNumero draws from a PostgreSQL sequence so concurrent sales never
// collide on numero_venta.
func (r *ventaRepo) NextNumero(tx *gorm.DB) (string, error) {
	var num int64
	if err := tx.Raw("SELECT nextval('ventas_numero_seq')").Scan(&num).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("V-%06d", num), nil
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(created_at) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(created_at) <= ?", filter.Hasta)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Cliente").Preload("Detalles.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) SumTotalDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("estado = ? AND created_at >= ?", model.VentaCompletada, desde).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *ventaRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("estado = ?", model.VentaCompletada).Count(&total).Error
	return total, err
}

func (r *ventaRepo) TotalesPorMes(ctx context.Context, meses int) ([]dto.VentasPorMes, error) {
	desde := time.Now().AddDate(0, -meses, 0)
	var rows []dto.VentasPorMes
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("to_char(created_at, 'YYYY-MM') AS mes, SUM(total) AS total, COUNT(*) AS count").
		Where("estado = ? AND created_at >= ?", model.VentaCompletada, desde).
		Group("mes").Order("mes ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ventaRepo) TopProductos(ctx context.Context, limit int) ([]dto.ProductoVendido, error) {
	var rows []dto.ProductoVendido
	err := r.db.WithContext(ctx).
		Table("detalle_ventas dv").
		Select(`dv.producto_id AS producto_id,
			p.nombre_comercial AS nombre_comercial,
			SUM(dv.cantidad) AS cantidad_vendida,
			SUM(dv.subtotal) AS total_vendido`).
		Joins("JOIN productos p ON p.id = dv.producto_id").
		Joins("JOIN ventas v ON v.id = dv.venta_id AND v.estado = ?", model.VentaCompletada).
		Group("dv.producto_id, p.nombre_comercial").
		Order("cantidad_vendida DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
