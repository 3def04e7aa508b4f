package infra

import (
	"fmt"

	"github.com/comercial2hermanos/sistema-c2h/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create / update all tables. gen_random_uuid() requires PostgreSQL 13+.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations applies the schema. Shared with integration tests so the
// container databases start from the exact same DDL as production.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.Cliente{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.Abono{},
		&model.Compra{},
		&model.DetalleCompra{},
		&model.Gasto{},
		&model.CierreCaja{},
		&model.MovimientoStock{},
		&model.HistorialPrecio{},
	)
}
