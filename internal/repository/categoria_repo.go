package repository

import (
	"context"

	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines CRUD operations for Categoria. Deleted rows are
// invisible to every method.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ExisteNombre(ctx context.Context, nombre string, excluir *uuid.UUID) (bool, error)
	Actualizar(ctx context.Context, c *model.Categoria) error
	Borrar(ctx context.Context, id uuid.UUID) error
	ContarProductosActivos(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) Listar(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Where("borrado = false").Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ? AND borrado = false", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) ExisteNombre(ctx context.Context, nombre string, excluir *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Categoria{}).
		Where("lower(nombre) = lower(?) AND borrado = false", nombre)
	if excluir != nil {
		q = q.Where("id <> ?", *excluir)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *categoriaRepository) Actualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepository) Borrar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("borrado", true).Error
}

func (r *categoriaRepository) ContarProductosActivos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("categoria_id = ? AND borrado = false", id).Count(&n).Error
	return n, err
}
