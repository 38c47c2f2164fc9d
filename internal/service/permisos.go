package service

import (
	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
)

// Solicitante is the authenticated caller of an operation.
type Solicitante struct {
	ID    uuid.UUID
	Roles []string
	Root  bool
}

// TieneAlgunRol reports whether the caller is root or holds any of roles.
func (s Solicitante) TieneAlgunRol(roles ...string) bool {
	if s.Root {
		return true
	}
	for _, tiene := range s.Roles {
		for _, r := range roles {
			if tiene == r {
				return true
			}
		}
	}
	return false
}

// EsAdministrador reports administrador or root.
func (s Solicitante) EsAdministrador() bool { return s.TieneAlgunRol(model.RolAdministrador) }

// EsElevado reports a role allowed to manage other users' pedidos and ventas.
func (s Solicitante) EsElevado() bool {
	return s.TieneAlgunRol(model.RolAdministrador, model.RolVendedor)
}
