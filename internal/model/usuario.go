package model

import (
	"time"

	"github.com/google/uuid"
)

// VigenciaTokenReset is how long a password-reset token stays usable.
const VigenciaTokenReset = 24 * time.Hour

// Usuario stores system users. Access is granted through Roles (many-to-many).
type Usuario struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username        string    `gorm:"type:varchar(50);index;not null"`
	Nombre          string    `gorm:"type:varchar(100);not null"`
	Apellido        string    `gorm:"type:varchar(100)"`
	Email           string    `gorm:"type:varchar(254);uniqueIndex;not null"`
	DNI             *int      `gorm:"uniqueIndex"`
	Direccion       string    `gorm:"type:varchar(100)"`
	Observaciones   string    `gorm:"type:varchar(255)"`
	PasswordHash    string    `gorm:"not null"`
	Habilitado      bool      `gorm:"not null;default:false"`
	Borrado         bool      `gorm:"not null;default:false;index"`
	TokenReset      *string   `gorm:"index"`
	FechaTokenReset *time.Time
	TokenEmail      *string `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Roles []Rol `gorm:"many2many:usuario_roles;"`
}

// TieneRol reports whether the user holds the named role.
func (u *Usuario) TieneRol(nombre string) bool {
	for _, r := range u.Roles {
		if r.Nombre == nombre {
			return true
		}
	}
	return false
}

// EsRoot reports whether any of the user's roles is root-privileged.
func (u *Usuario) EsRoot() bool {
	for _, r := range u.Roles {
		if r.Root {
			return true
		}
	}
	return false
}

// NombresRoles returns the role names in assignment order.
func (u *Usuario) NombresRoles() []string {
	nombres := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		nombres = append(nombres, r.Nombre)
	}
	return nombres
}

// TokenResetVigente reports whether the reset token was issued at most
// VigenciaTokenReset before now. A token without issue date is not valid.
func (u *Usuario) TokenResetVigente(now time.Time) bool {
	if u.TokenReset == nil || u.FechaTokenReset == nil {
		return false
	}
	return now.Sub(*u.FechaTokenReset) <= VigenciaTokenReset
}

// NombreCompleto joins nombre and apellido.
func (u *Usuario) NombreCompleto() string {
	if u.Apellido == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellido
}
