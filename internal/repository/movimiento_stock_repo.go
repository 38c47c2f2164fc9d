package repository

import (
	"context"
	"time"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error)
	// AnularPorIngresoTx stamps anulado on the movements of an ingreso's lines.
	AnularPorIngresoTx(tx *gorm.DB, ingresoID uuid.UUID, fecha time.Time) error
	AnularPorReemplazoTx(tx *gorm.DB, reemplazoID uuid.UUID, fecha time.Time) error
	// SumaCantidades returns the signed sum of a product's movements.
	SumaCantidades(ctx context.Context, productoID uuid.UUID) (int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Omit("Producto", "Usuario").Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{})
	if filter.Producto != "" {
		q = q.Where("producto_id = ?", filter.Producto)
	}
	if filter.Ingreso != "" {
		q = q.Where("ingreso_linea_id IN (SELECT id FROM ingreso_lineas WHERE ingreso_id = ?)", filter.Ingreso)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	q = usuarioContiene(q, "usuario_id", filter.Usuario)
	q = rangoFechas(q, "created_at", filter.FechaDesde, filter.FechaHasta)
	q = anulado(q, "anulado", filter.Estado, "activo", "anulado")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movimientos []model.MovimientoStock
	err := paginar(q.Preload("Producto").Preload("Usuario").Order("created_at DESC"),
		filter.Offset(), filter.RegistrosPorPagina).
		Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoStockRepo) AnularPorIngresoTx(tx *gorm.DB, ingresoID uuid.UUID, fecha time.Time) error {
	return tx.Model(&model.MovimientoStock{}).
		Where("anulado IS NULL AND ingreso_linea_id IN (SELECT id FROM ingreso_lineas WHERE ingreso_id = ?)", ingresoID).
		Update("anulado", fecha).Error
}

func (r *movimientoStockRepo) AnularPorReemplazoTx(tx *gorm.DB, reemplazoID uuid.UUID, fecha time.Time) error {
	return tx.Model(&model.MovimientoStock{}).
		Where(`anulado IS NULL AND reemplazo_linea_id IN
			(SELECT id FROM reemplazo_mercaderia_lineas WHERE reemplazo_id = ?)`, reemplazoID).
		Update("anulado", fecha).Error
}

func (r *movimientoStockRepo) SumaCantidades(ctx context.Context, productoID uuid.UUID) (int64, error) {
	var suma int64
	err := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).
		Where("producto_id = ?", productoID).
		Select("COALESCE(SUM(cantidad), 0)").Scan(&suma).Error
	return suma, err
}
