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

type ReemplazoRepository interface {
	CreateTx(tx *gorm.DB, r *model.ReemplazoMercaderia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReemplazoMercaderia, error)
	List(ctx context.Context, filter dto.DocumentoStockFilter) ([]model.ReemplazoMercaderia, int64, error)
	MarcarAnuladoTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error)
	DB() *gorm.DB
}

type reemplazoRepo struct{ db *gorm.DB }

func NewReemplazoRepository(db *gorm.DB) ReemplazoRepository { return &reemplazoRepo{db: db} }

func (r *reemplazoRepo) DB() *gorm.DB { return r.db }

func (r *reemplazoRepo) CreateTx(tx *gorm.DB, rm *model.ReemplazoMercaderia) error {
	if err := tx.Omit(clause.Associations).Create(rm).Error; err != nil {
		return err
	}
	for k := range rm.Lineas {
		rm.Lineas[k].ReemplazoID = rm.ID
	}
	if len(rm.Lineas) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rm.Lineas).Error
}

func (r *reemplazoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReemplazoMercaderia, error) {
	var rm model.ReemplazoMercaderia
	err := r.db.WithContext(ctx).
		Preload("Usuario").Preload("Lineas.Producto").
		First(&rm, "id = ?", id).Error
	return &rm, err
}

func (r *reemplazoRepo) List(ctx context.Context, filter dto.DocumentoStockFilter) ([]model.ReemplazoMercaderia, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ReemplazoMercaderia{})
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
	var lista []model.ReemplazoMercaderia
	err := paginar(q.Preload("Usuario").Preload("Lineas.Producto").Order("numero DESC"),
		filter.Offset(), filter.RegistrosPorPagina).
		Find(&lista).Error
	return lista, total, err
}

func (r *reemplazoRepo) MarcarAnuladoTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error) {
	res := tx.Model(&model.ReemplazoMercaderia{}).Where("id = ? AND anulado IS NULL", id).Update("anulado", fecha)
	return res.RowsAffected == 1, res.Error
}
