package repository

import (
	"context"
	"time"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	// CreateTx persists the venta and its lines.
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDTx locks the venta and loads its lines.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	if err := tx.Omit(clause.Associations).Create(v).Error; err != nil {
		return err
	}
	for i := range v.Lineas {
		v.Lineas[i].VentaID = v.ID
	}
	if len(v.Lineas) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&v.Lineas).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Usuario").Preload("Lineas.Producto").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	err := tx.Where("venta_id = ?", id).Find(&v.Lineas).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Numero > 0 {
		q = q.Where("numero = ?", filter.Numero)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	q = rangoFechas(q, "created_at", filter.FechaDesde, filter.FechaHasta)
	q = anulado(q, "anulada", filter.Estado, "activa", "anulada")

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginar(q.Preload("Usuario").Preload("Lineas.Producto").Order("created_at DESC"),
		filter.Offset(), filter.RegistrosPorPagina).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error) {
	res := tx.Model(&model.Venta{}).Where("id = ? AND anulada IS NULL", id).Update("anulada", fecha)
	return res.RowsAffected == 1, res.Error
}
