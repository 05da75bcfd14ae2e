package repository

import (
	"context"
	"fmt"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	// FindByIDForUpdateTx locks the compra row so two operators cannot
	// receive the same purchase twice.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	NextNumero(tx *gorm.DB) (string, error)
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Detalles.Producto").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Detalles").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Compra{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *compraRepo) NextNumero(tx *gorm.DB) (string, error) {
	var num int64
	if err := tx.Raw("SELECT nextval('compras_numero_seq')").Scan(&num).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("C-%06d", num), nil
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Proveedor").Preload("Detalles.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&compras).Error
	return compras, total, err
}
