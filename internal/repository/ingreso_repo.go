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

type IngresoRepository interface {
	// CreateTx persists the header and its lines.
	CreateTx(tx *gorm.DB, i *model.Ingreso) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingreso, error)
	List(ctx context.Context, filter dto.DocumentoStockFilter) ([]model.Ingreso, int64, error)
	// MarcarAnuladoTx stamps anulado when still unset and reports whether it did.
	MarcarAnuladoTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error)
	DB() *gorm.DB
}

type ingresoRepo struct{ db *gorm.DB }

func NewIngresoRepository(db *gorm.DB) IngresoRepository { return &ingresoRepo{db: db} }

func (r *ingresoRepo) DB() *gorm.DB { return r.db }

func (r *ingresoRepo) CreateTx(tx *gorm.DB, i *model.Ingreso) error {
	if err := tx.Omit(clause.Associations).Create(i).Error; err != nil {
		return err
	}
	for k := range i.Lineas {
		i.Lineas[k].IngresoID = i.ID
	}
	if len(i.Lineas) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&i.Lineas).Error
}

func (r *ingresoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingreso, error) {
	var i model.Ingreso
	err := r.db.WithContext(ctx).
		Preload("Usuario").Preload("Lineas.Producto").
		First(&i, "id = ?", id).Error
	return &i, err
}

func (r *ingresoRepo) List(ctx context.Context, filter dto.DocumentoStockFilter) ([]model.Ingreso, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Ingreso{})
	if filter.Numero > 0 {
		q = q.Where("numero = ?", filter.Numero)
	}
	q = rangoFechas(q, "fecha", filter.FechaDesde, filter.FechaHasta)
	q = usuarioContiene(q, "usuario_id", filter.Usuario)
	q = anulado(q, "anulado", filter.Estado, "activo", "anulado")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ingresos []model.Ingreso
	err := paginar(q.Preload("Usuario").Preload("Lineas.Producto").Order("numero DESC"),
		filter.Offset(), filter.RegistrosPorPagina).
		Find(&ingresos).Error
	return ingresos, total, err
}

func (r *ingresoRepo) MarcarAnuladoTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error) {
	res := tx.Model(&model.Ingreso{}).Where("id = ? AND anulado IS NULL", id).Update("anulado", fecha)
	return res.RowsAffected == 1, res.Error
}
