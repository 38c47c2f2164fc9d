package model

import (
	"github.com/google/uuid"
)

// Role names. The set is fixed and seeded at migration time.
const (
	RolRoot          = "root"
	RolMozo          = "mozo"
	RolComensal      = "comensal"
	RolVendedor      = "vendedor"
	RolAdministrador = "administrador"
)

// Rol is a named permission bundle assigned to users (many-to-many).
// Root roles pass every role check.
type Rol struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Legible     string    `gorm:"type:varchar(50);not null"`
	Descripcion string    `gorm:"type:varchar(250)"`
	Root        bool      `gorm:"not null;default:false"`
}

func (Rol) TableName() string { return "roles" }

// RolesIniciales are inserted by the migration seed when missing.
func RolesIniciales() []Rol {
	return []Rol{
		{Nombre: RolRoot, Legible: "Root", Descripcion: "Acceso total al sistema", Root: true},
		{Nombre: RolMozo, Legible: "Mozo", Descripcion: "Atiende las mesas del local"},
		{Nombre: RolComensal, Legible: "Comensal", Descripcion: "Realiza pedidos online"},
		{Nombre: RolVendedor, Legible: "Vendedor", Descripcion: "Gestiona pedidos y ventas"},
		{Nombre: RolAdministrador, Legible: "Administrador", Descripcion: "Administra catálogo, stock y usuarios"},
	}
}

// EsRolValido reports whether nombre belongs to the fixed role set.
func EsRolValido(nombre string) bool {
	switch nombre {
	case RolRoot, RolMozo, RolComensal, RolVendedor, RolAdministrador:
		return true
	}
	return false
}
