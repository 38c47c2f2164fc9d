package repository

import (
	"context"

	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialPrecioRepository stores one row per price or cost change.
type HistorialPrecioRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, pagina, registros int) ([]model.HistorialPrecio, int64, error)
}

type historialPrecioRepo struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepo{db: db}
}

func (r *historialPrecioRepo) CreateTx(tx *gorm.DB, h *model.HistorialPrecio) error {
	return tx.Create(h).Error
}

// ListByProducto pages a product's changes, newest first. Out-of-range
// arguments fall back to the first page of 50.
func (r *historialPrecioRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, pagina, registros int) ([]model.HistorialPrecio, int64, error) {
	if pagina < 1 {
		pagina = 1
	}
	if registros < 1 || registros > 200 {
		registros = 50
	}
	q := r.db.WithContext(ctx).Model(&model.HistorialPrecio{}).Where("producto_id = ?", productoID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var filas []model.HistorialPrecio
	err := paginar(q.Order("created_at DESC"), (pagina-1)*registros, registros).Find(&filas).Error
	return filas, total, err
}
