package infra

import (
	"fmt"

	"github.com/martingh15/proyecto-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and tunes the pool.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// pedidos and ventas reference each other; constraints would make the
		// creation order circular.
		DisableForeignKeyConstraintWhenMigrating: true,
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
	return db, nil
}

// RunMigrations creates or updates every table, applies the partial indexes
// AutoMigrate cannot express and seeds the fixed role set.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Rol{},
		&model.Usuario{},
		&model.Categoria{},
		&model.Producto{},
		&model.HistorialPrecio{},
		&model.Ingreso{},
		&model.IngresoLinea{},
		&model.ReemplazoMercaderia{},
		&model.ReemplazoMercaderiaLinea{},
		&model.MovimientoStock{},
		&model.Venta{},
		&model.VentaLinea{},
		&model.Pedido{},
		&model.PedidoLinea{},
		&model.PedidoEstado{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return SeedRoles(db)
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// one open cart per user
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_pedidos_usuario_abierto
		    ON pedidos (usuario_id) WHERE estado = 'ABIERTO'`,
		// category names are unique among active rows only
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categorias_nombre_activa
		    ON categorias (LOWER(nombre)) WHERE borrado = false`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_username_activo
		    ON usuarios (LOWER(username)) WHERE borrado = false`,
		`CREATE INDEX IF NOT EXISTS idx_productos_alerta
		    ON productos (stock, stock_seguridad) WHERE borrado = false`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// SeedRoles inserts the fixed roles that are missing.
func SeedRoles(db *gorm.DB) error {
	roles := model.RolesIniciales()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nombre"}},
		DoNothing: true,
	}).Create(&roles).Error
}
