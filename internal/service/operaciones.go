package service

import (
	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"
)

// operaciones is the fixed menu catalog, ordered by id.
var operaciones = []dto.OperacionResponse{
	{
		ID: 1, Titular: "Usuarios", Ruta: "/usuarios/listar",
		Roles:       []string{model.RolAdministrador, model.RolVendedor},
		Titulo:      "Usuarios",
		Descripcion: "Alta, edición y baja de usuarios del sistema",
	},
	{
		ID: 2, Titular: "Mesas", Ruta: "/mesas/listar",
		Roles:       []string{model.RolAdministrador, model.RolMozo},
		Titulo:      "Mesas",
		Descripcion: "Gestión de las mesas del local",
	},
	{
		ID: 3, Titular: "Productos", Ruta: "/productos/listar/admin",
		Roles:       []string{model.RolAdministrador},
		Titulo:      "Productos",
		Descripcion: "Catálogo de productos, precios y stock",
	},
	{
		ID: 4, Titular: "Ingreso", Ruta: "/ingreso-mercaderia/",
		Roles:       []string{model.RolAdministrador},
		Titulo:      "Ingreso de mercadería",
		Descripcion: "Registro de compras y entradas de stock",
	},
	{
		ID: 5, Titular: "Reemplazo de mercadería", Ruta: "/reemplazo-mercaderia/",
		Roles:       []string{model.RolAdministrador},
		Titulo:      "Reemplazo de mercadería",
		Descripcion: "Retiro de mercadería dañada o devuelta",
	},
	{
		ID: 6, Titular: "Pedidos", Ruta: "/pedidos/vendedor",
		Roles:       []string{model.RolVendedor, model.RolAdministrador},
		Titulo:      "Pedidos",
		Descripcion: "Seguimiento y entrega de pedidos online",
	},
	{
		ID: 7, Titular: "Venta", Ruta: "/venta/listado",
		Roles:       []string{model.RolVendedor, model.RolAdministrador},
		Titulo:      "Ventas",
		Descripcion: "Registro y anulación de ventas",
	},
}

// OperacionesPara returns the menu entries the caller may see. Root sees all.
func OperacionesPara(s Solicitante) []dto.OperacionResponse {
	out := make([]dto.OperacionResponse, 0, len(operaciones))
	for _, op := range operaciones {
		if s.TieneAlgunRol(op.Roles...) {
			out = append(out, op)
		}
	}
	return out
}
