package service

import (
	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
)

func idTexto(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func rolToResponse(r model.Rol) dto.RolResponse {
	return dto.RolResponse{
		ID:          r.ID.String(),
		Nombre:      r.Nombre,
		Legible:     r.Legible,
		Descripcion: r.Descripcion,
		Root:        r.Root,
	}
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	roles := make([]dto.RolResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, rolToResponse(r))
	}
	return dto.UsuarioResponse{
		ID:            u.ID.String(),
		Username:      u.Username,
		Nombre:        u.Nombre,
		Apellido:      u.Apellido,
		Email:         u.Email,
		DNI:           u.DNI,
		Direccion:     u.Direccion,
		Observaciones: u.Observaciones,
		Habilitado:    u.Habilitado,
		Roles:         roles,
	}
}

func usuarioResumen(u *model.Usuario) *dto.UsuarioResumen {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResumen{ID: u.ID.String(), NombreCompleto: u.NombreCompleto(), Email: u.Email}
}

func categoriaToResponse(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre, Descripcion: c.Descripcion}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		CategoriaID:    p.CategoriaID.String(),
		PrecioVigente:  p.PrecioVigente,
		CostoVigente:   p.CostoVigente,
		Margen:         p.Margen(),
		Stock:          p.Stock,
		StockSeguridad: p.StockSeguridad,
		Alertar:        p.Alertar(),
		CompraDirecta:  p.CompraDirecta,
		VentaDirecta:   p.VentaDirecta,
	}
	if p.Categoria != nil {
		c := categoriaToResponse(p.Categoria)
		resp.Categoria = &c
	}
	return resp
}

func productoToPublico(p *model.Producto) dto.ProductoPublicoResponse {
	resp := dto.ProductoPublicoResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		Descripcion:   p.Descripcion,
		CategoriaID:   p.CategoriaID.String(),
		PrecioVigente: p.PrecioVigente,
		Stock:         p.Stock,
	}
	if p.Categoria != nil {
		c := categoriaToResponse(p.Categoria)
		resp.Categoria = &c
	}
	return resp
}

func nombreProducto(p *model.Producto) string {
	if p == nil {
		return ""
	}
	return p.Nombre
}

func historialToResponse(h *model.HistorialPrecio) dto.HistorialPrecioResponse {
	return dto.HistorialPrecioResponse{
		ID:            h.ID.String(),
		ProductoID:    h.ProductoID.String(),
		UsuarioID:     idTexto(h.UsuarioID),
		CostoAntes:    h.CostoAntes,
		CostoDespues:  h.CostoDespues,
		PrecioAntes:   h.PrecioAntes,
		PrecioDespues: h.PrecioDespues,
		Motivo:        h.Motivo,
		Fecha:         h.CreatedAt,
	}
}

func movimientoToResponse(m *model.MovimientoStock) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:               m.ID.String(),
		ProductoID:       m.ProductoID.String(),
		Producto:         nombreProducto(m.Producto),
		Tipo:             string(m.Tipo),
		Cantidad:         m.Cantidad,
		StockAnterior:    m.StockAnterior,
		StockNuevo:       m.StockNuevo,
		Descripcion:      m.Descripcion,
		Usuario:          usuarioResumen(m.Usuario),
		IngresoLineaID:   idTexto(m.IngresoLineaID),
		ReemplazoLineaID: idTexto(m.ReemplazoLineaID),
		VentaLineaID:     idTexto(m.VentaLineaID),
		Anulado:          m.Anulado,
		Fecha:            m.CreatedAt,
	}
}

func ingresoToResponse(i *model.Ingreso, s Solicitante) dto.DocumentoStockResponse {
	lineas := make([]dto.LineaStockResponse, 0, len(i.Lineas))
	for _, l := range i.Lineas {
		lineas = append(lineas, dto.LineaStockResponse{
			ID: l.ID.String(), ProductoID: l.ProductoID.String(), Producto: nombreProducto(l.Producto),
			Cantidad: l.Cantidad, Costo: l.Costo, Total: l.Total,
		})
	}
	return dto.DocumentoStockResponse{
		ID:       i.ID.String(),
		Numero:   i.NumeroTexto(),
		Fecha:    i.Fecha,
		Usuario:  usuarioResumen(i.Usuario),
		Total:    i.Total,
		Anulado:  i.Anulado,
		Lineas:   lineas,
		Acciones: accionesDocumento(i.EstaAnulado(), s),
	}
}

func reemplazoToResponse(r *model.ReemplazoMercaderia, s Solicitante) dto.DocumentoStockResponse {
	lineas := make([]dto.LineaStockResponse, 0, len(r.Lineas))
	for _, l := range r.Lineas {
		lineas = append(lineas, dto.LineaStockResponse{
			ID: l.ID.String(), ProductoID: l.ProductoID.String(), Producto: nombreProducto(l.Producto),
			Cantidad: l.Cantidad, Costo: l.Costo, Total: l.Total,
		})
	}
	return dto.DocumentoStockResponse{
		ID:       r.ID.String(),
		Numero:   r.NumeroTexto(),
		Fecha:    r.Fecha,
		Usuario:  usuarioResumen(r.Usuario),
		Total:    r.Total,
		Anulado:  r.Anulado,
		Lineas:   lineas,
		Acciones: accionesDocumento(r.EstaAnulado(), s),
	}
}

func pedidoToResponse(p *model.Pedido, s Solicitante) dto.PedidoResponse {
	lineas := make([]dto.PedidoLineaResponse, 0, len(p.Lineas))
	for _, l := range p.Lineas {
		lineas = append(lineas, dto.PedidoLineaResponse{
			ID: l.ID.String(), ProductoID: l.ProductoID.String(), Producto: nombreProducto(l.Producto),
			Cantidad: l.Cantidad, Precio: l.Precio, Subtotal: l.Subtotal,
		})
	}
	estados := make([]dto.PedidoEstadoResponse, 0, len(p.Estados))
	for _, e := range p.Estados {
		estados = append(estados, dto.PedidoEstadoResponse{
			Estado: string(e.Estado), Legible: e.Estado.Legible(), Fecha: e.CreatedAt,
		})
	}
	return dto.PedidoResponse{
		ID:            p.ID.String(),
		Numero:        p.NumeroTexto(),
		Fecha:         p.Fecha,
		Estado:        string(p.Estado),
		EstadoLegible: p.Estado.Legible(),
		Total:         p.Total,
		Delivery:      p.Delivery,
		Direccion:     p.Direccion,
		PagaCon:       p.PagaCon,
		Vuelto:        p.Vuelto,
		VentaID:       idTexto(p.VentaID),
		Usuario:       usuarioResumen(p.Usuario),
		Lineas:        lineas,
		Estados:       estados,
		Acciones:      accionesPedido(p, s),
	}
}

func ventaToResponse(v *model.Venta, s Solicitante) dto.VentaResponse {
	lineas := make([]dto.VentaLineaResponse, 0, len(v.Lineas))
	for _, l := range v.Lineas {
		lineas = append(lineas, dto.VentaLineaResponse{
			ID: l.ID.String(), ProductoID: l.ProductoID.String(), Producto: nombreProducto(l.Producto),
			Cantidad: l.Cantidad, Precio: l.Precio, Total: l.Total,
		})
	}
	return dto.VentaResponse{
		ID:       v.ID.String(),
		Numero:   v.NumeroTexto(),
		Fecha:    v.CreatedAt,
		Tipo:     v.Tipo,
		Total:    v.Total,
		PagaCon:  v.PagaCon,
		Vuelto:   v.Vuelto,
		Anulada:  v.Anulada,
		PedidoID: idTexto(v.PedidoID),
		Usuario:  usuarioResumen(v.Usuario),
		Lineas:   lineas,
		Acciones: accionesVenta(v, s),
	}
}

// ─── Acciones ────────────────────────────────────────────────────────────────

func accionesDocumento(anulado bool, s Solicitante) dto.Acciones {
	return dto.Acciones{
		"visualizar": true,
		"anular":     !anulado && s.EsAdministrador(),
	}
}

func accionesPedido(p *model.Pedido, s Solicitante) dto.Acciones {
	duenio := p.UsuarioID == s.ID
	return dto.Acciones{
		"visualizar": true,
		"entregar":   p.Estado == model.EstadoCerrado && s.EsElevado(),
		"comanda":    p.Estado == model.EstadoCerrado && s.EsElevado(),
		"ticket":     p.VentaID != nil && (duenio || s.EsElevado()),
		"cancelar":   !p.Estado.Terminal() && (duenio || s.EsElevado()),
	}
}

func accionesVenta(v *model.Venta, s Solicitante) dto.Acciones {
	return dto.Acciones{
		"visualizar": true,
		"ticket":     true,
		"comanda":    v.PedidoID != nil && s.EsElevado(),
		"anular":     !v.EstaAnulada() && s.EsElevado(),
	}
}
