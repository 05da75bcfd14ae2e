package repository

import (
	"context"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	CreateTx(tx *gorm.DB, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// FindByIDForUpdateTx reads the product row under a SELECT … FOR UPDATE
	// lock. Every ledger write goes through this read so that concurrent
	// movements against the same product serialize instead of racing.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	// UpdateStockTx applies a relative stock delta inside a transaction.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	// UpdateLoteTx copies lote / fecha_vencimiento from a received purchase line.
	UpdateLoteTx(tx *gorm.DB, id uuid.UUID, lote *string, fechaVencimiento *time.Time) error

	// Reporting
	ListStockBajo(ctx context.Context) ([]model.Producto, error)
	ListPorVencer(ctx context.Context, dias int) ([]model.Producto, error)
	CountActivos(ctx context.Context) (int64, error)
	// ValorInventario sums stock_actual × precio_compra over active products.
	ValorInventario(ctx context.Context) (decimal.Decimal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").Preload("Proveedor").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ? AND activo = true", barcode).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Barcode != "" {
		q = q.Where("codigo_barras = ?", filter.Barcode)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre_comercial ILIKE ? OR principio_activo ILIKE ?",
			"%"+filter.Nombre+"%", "%"+filter.Nombre+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.StockBajo {
		q = q.Where("stock_actual < stock_minimo")
	}
	if filter.PorVencerDias > 0 {
		limite := time.Now().AddDate(0, 0, filter.PorVencerDias)
		q = q.Where("fecha_vencimiento IS NOT NULL AND fecha_vencimiento BETWEEN now() AND ?", limite)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Categoria").Preload("Proveedor").
		Order("nombre_comercial ASC").Limit(filter.Limit).Offset(offset).
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", delta)).Error
}

func (r *productoRepo) UpdateLoteTx(tx *gorm.DB, id uuid.UUID, lote *string, fechaVencimiento *time.Time) error {
	updates := map[string]interface{}{}
	if lote != nil {
		updates["lote"] = *lote
	}
	if fechaVencimiento != nil {
		updates["fecha_vencimiento"] = *fechaVencimiento
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&model.Producto{}).Where("id = ?", id).Updates(updates).Error
}

func (r *productoRepo) ListStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_actual < stock_minimo").
		Order("stock_actual ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListPorVencer(ctx context.Context, dias int) ([]model.Producto, error) {
	var productos []model.Producto
	limite := time.Now().AddDate(0, 0, dias)
	err := r.db.WithContext(ctx).
		Where("activo = true AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento BETWEEN now() AND ?", limite).
		Order("fecha_vencimiento ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CountActivos(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Where("activo = true").Count(&total).Error
	return total, err
}

func (r *productoRepo) ValorInventario(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = true").
		Select("COALESCE(SUM(stock_actual * precio_compra), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
