package repository

import (
	"context"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"gorm.io/gorm"
)

// ConfiguracionRepository reads the single pharmacy settings row.
type ConfiguracionRepository interface {
	Obtener(ctx context.Context) (*model.Configuracion, error)
	Guardar(ctx context.Context, c *model.Configuracion) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Obtener(ctx context.Context) (*model.Configuracion, error) {
	var c model.Configuracion
	if err := r.db.WithContext(ctx).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configuracionRepo) Guardar(ctx context.Context, c *model.Configuracion) error {
	return r.db.WithContext(ctx).Save(c).Error
}
