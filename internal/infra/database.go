package infra

import (
	"fmt"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches
// GORM cannot express (sequences, the ledger's append-only guard).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema. Also used by integration tests against
// a containerized Postgres.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Proveedor{},
		&model.Cliente{},
		&model.Usuario{},
		&model.Configuracion{},
		&model.Producto{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.Compra{},
		&model.DetalleCompra{},
		&model.HistorialInventario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL for what AutoMigrate cannot do:
// the correlativo sequences and the trigger that rejects UPDATE/DELETE on
// historial_inventario, enforcing append-only at the database level.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE SEQUENCE IF NOT EXISTS ventas_numero_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS compras_numero_seq START 1`,
		`CREATE OR REPLACE FUNCTION historial_inventario_solo_insert() RETURNS trigger AS $$
		BEGIN
		  RAISE EXCEPTION 'historial_inventario es append-only';
		END;
		$$ LANGUAGE plpgsql`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_historial_inventario_inmutable') THEN
		    CREATE TRIGGER trg_historial_inventario_inmutable
		        BEFORE UPDATE OR DELETE ON historial_inventario
		        FOR EACH ROW EXECUTE FUNCTION historial_inventario_solo_insert();
		  END IF;
		END $$`,
		// single settings row, created once
		`INSERT INTO configuracion (id, igv, moneda, created_at, updated_at)
		 SELECT gen_random_uuid(), 0.18, 'PEN', now(), now()
		 WHERE NOT EXISTS (SELECT 1 FROM configuracion)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
