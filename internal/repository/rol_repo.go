package repository

import (
	"context"

	"github.com/martingh15/proyecto-backend/internal/model"

	"gorm.io/gorm"
)

type RolRepository interface {
	List(ctx context.Context) ([]model.Rol, error)
	FindByNombres(ctx context.Context, nombres []string) ([]model.Rol, error)
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&roles).Error
	return roles, err
}

func (r *rolRepo) FindByNombres(ctx context.Context, nombres []string) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Where("nombre IN ?", nombres).Find(&roles).Error
	return roles, err
}
