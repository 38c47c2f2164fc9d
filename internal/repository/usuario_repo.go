package repository

import (
	"context"
	"time"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByLogin(ctx context.Context, login string) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	FindByTokenEmail(ctx context.Context, token string) (*model.Usuario, error)
	FindByTokenReset(ctx context.Context, token string) (*model.Usuario, error)
	ExisteEmail(ctx context.Context, email string, excluir *uuid.UUID) (bool, error)
	ExisteDNI(ctx context.Context, dni int, excluir *uuid.UUID) (bool, error)
	ExisteLogin(ctx context.Context, login string, excluir *uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, int64, error)
	Update(ctx context.Context, u *model.Usuario) error
	ReemplazarRoles(ctx context.Context, u *model.Usuario, roles []model.Rol) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// LimpiarTokensVencidos clears reset tokens issued before limite.
	LimpiarTokensVencidos(ctx context.Context, limite time.Time) (int64, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Roles").First(&u, "id = ? AND borrado = false", id).Error
	return &u, err
}

func (r *usuarioRepo) FindByLogin(ctx context.Context, login string) (*model.Usuario, error) {
	var u model.Usuario
	// username or e-mail, both case-insensitive
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("(LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)) AND borrado = false", login, login).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("LOWER(email) = LOWER(?) AND borrado = false", email).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByTokenEmail(ctx context.Context, token string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("token_email = ? AND borrado = false", token).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByTokenReset(ctx context.Context, token string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("token_reset = ? AND borrado = false", token).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) ExisteEmail(ctx context.Context, email string, excluir *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("LOWER(email) = LOWER(?)", email)
	if excluir != nil {
		q = q.Where("id <> ?", *excluir)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *usuarioRepo) ExisteDNI(ctx context.Context, dni int, excluir *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("dni = ?", dni)
	if excluir != nil {
		q = q.Where("id <> ?", *excluir)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// ExisteLogin reports whether an active user other than excluir logs in with
// login, either as username or as e-mail.
func (r *usuarioRepo) ExisteLogin(ctx context.Context, login string, excluir *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("(LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)) AND borrado = false", login, login)
	if excluir != nil {
		q = q.Where("id <> ?", *excluir)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// List returns non-deleted users that do not hold the administrador role.
func (r *usuarioRepo) List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("borrado = false").
		Where(`id NOT IN (SELECT ur.usuario_id FROM usuario_roles ur
			JOIN roles r ON r.id = ur.rol_id WHERE r.nombre = ?)`, model.RolAdministrador)
	if filter.Nombre != "" {
		like := "%" + filter.Nombre + "%"
		q = q.Where("(nombre ILIKE ? OR apellido ILIKE ? OR email ILIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []model.Usuario
	err := paginar(q.Preload("Roles").Order("nombre ASC, apellido ASC"), filter.Offset(), filter.RegistrosPorPagina).
		Find(&users).Error
	return users, total, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Omit("Roles").Save(u).Error
}

func (r *usuarioRepo) ReemplazarRoles(ctx context.Context, u *model.Usuario, roles []model.Rol) error {
	if err := r.db.WithContext(ctx).Model(u).Association("Roles").Replace(roles); err != nil {
		return err
	}
	u.Roles = roles
	return nil
}

func (r *usuarioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("borrado", true).Error
}

func (r *usuarioRepo) LimpiarTokensVencidos(ctx context.Context, limite time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("token_reset IS NOT NULL AND (fecha_token_reset IS NULL OR fecha_token_reset < ?)", limite).
		Updates(map[string]interface{}{"token_reset": nil, "fecha_token_reset": nil})
	return res.RowsAffected, res.Error
}
