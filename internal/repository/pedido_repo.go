package repository

import (
	"context"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PedidoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	// FindAbierto returns the user's ABIERTO pedido.
	FindAbierto(ctx context.Context, usuarioID uuid.UUID) (*model.Pedido, error)
	ExisteCerrado(ctx context.Context, usuarioID uuid.UUID) (bool, error)
	// List filters by owner when usuarioID is not nil.
	List(ctx context.Context, filter dto.PedidoFilter, usuarioID *uuid.UUID) ([]model.Pedido, int64, error)

	CreateTx(tx *gorm.DB, p *model.Pedido) error
	// FindByIDTx locks the pedido and loads its lines.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	FindByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (*model.Pedido, error)
	UpdateTx(tx *gorm.DB, p *model.Pedido) error
	ReemplazarLineasTx(tx *gorm.DB, p *model.Pedido) error
	CreateEstadoTx(tx *gorm.DB, e *model.PedidoEstado) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) preloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Usuario").Preload("Lineas.Producto").
		Preload("Estados", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.preloads(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pedidoRepo) FindAbierto(ctx context.Context, usuarioID uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.preloads(r.db.WithContext(ctx)).
		Where("usuario_id = ? AND estado = ?", usuarioID, model.EstadoAbierto).
		First(&p).Error
	return &p, err
}

func (r *pedidoRepo) ExisteCerrado(ctx context.Context, usuarioID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("usuario_id = ? AND estado = ?", usuarioID, model.EstadoCerrado).
		Count(&n).Error
	return n > 0, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter, usuarioID *uuid.UUID) ([]model.Pedido, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if usuarioID != nil {
		q = q.Where("usuario_id = ?", *usuarioID)
	}
	if filter.Numero > 0 {
		q = q.Where("numero = ?", filter.Numero)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	q = rangoFechas(q, "fecha", filter.FechaDesde, filter.FechaHasta)
	q = usuarioContiene(q, "usuario_id", filter.Usuario)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var pedidos []model.Pedido
	err := paginar(r.preloads(q).Order("fecha DESC"), filter.Offset(), filter.RegistrosPorPagina).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
		return err
	}
	return r.ReemplazarLineasTx(tx, p)
}

func (r *pedidoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	err = tx.Where("pedido_id = ?", id).Find(&p.Lineas).Error
	return &p, err
}

func (r *pedidoRepo) FindByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "venta_id = ?", ventaID).Error
	return &p, err
}

func (r *pedidoRepo) UpdateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Omit(clause.Associations).Save(p).Error
}

func (r *pedidoRepo) ReemplazarLineasTx(tx *gorm.DB, p *model.Pedido) error {
	if err := tx.Where("pedido_id = ?", p.ID).Delete(&model.PedidoLinea{}).Error; err != nil {
		return err
	}
	for i := range p.Lineas {
		p.Lineas[i].PedidoID = p.ID
	}
	if len(p.Lineas) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&p.Lineas).Error
}

func (r *pedidoRepo) CreateEstadoTx(tx *gorm.DB, e *model.PedidoEstado) error {
	return tx.Create(e).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoLinea{}).Error; err != nil {
		return err
	}
	if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoEstado{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Pedido{}, "id = ?", id).Error
}
