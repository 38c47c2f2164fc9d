package handler

import (
	"net/http"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Guardar godoc
// @Summary      Guardar el pedido abierto
// @Description  Reemplaza las líneas del pedido abierto del usuario, creándolo si no existe. Una lista vacía lo borra.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GuardarPedidoRequest true "Líneas del pedido"
// @Success      200  {object} respuesta.Respuesta{datos=dto.PedidoResponse}
// @Failure      400  {object} respuesta.Respuesta
// @Router       /v1/pedidos [post]
func (h *PedidosHandler) Guardar(c *gin.Context) {
	var req dto.GuardarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), solicitante(c), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al guardar el pedido.")
		return
	}
	if resp == nil {
		responder(c, http.StatusOK, "", gin.H{"pedido": "borrado"})
		return
	}
	responder(c, http.StatusOK, "", gin.H{"pedido": resp})
}

// Abierto GET /v1/pedidos/abierto
func (h *PedidosHandler) Abierto(c *gin.Context) {
	resp, cerrado, err := h.svc.ObtenerAbierto(c.Request.Context(), solicitante(c))
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el pedido.")
		return
	}
	if cerrado {
		responder(c, http.StatusOK, "", gin.H{"cerrado": true})
		return
	}
	responder(c, http.StatusOK, "", gin.H{"pedido": resp})
}

// Cerrar godoc
// @Summary      Cerrar pedido
// @Description  Registra la venta online del pedido, descuenta stock y lo pasa a preparación.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del pedido"
// @Param        body body dto.CerrarPedidoRequest true "Pago y entrega"
// @Success      200  {object} respuesta.Respuesta{datos=dto.PedidoResponse}
// @Failure      409  {object} respuesta.Respuesta
// @Router       /v1/pedidos/{id}/cerrar [put]
func (h *PedidosHandler) Cerrar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	var req dto.CerrarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), solicitante(c), id, req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al cerrar el pedido.")
		return
	}
	responder(c, http.StatusOK, service.MensajePedidoCerrado, resp)
}

// Entregar serves both /entregar and /recibir.
func (h *PedidosHandler) Entregar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Entregar(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al entregar el pedido.")
		return
	}
	responder(c, http.StatusOK, "El pedido se ha entregado con éxito.", resp)
}

func (h *PedidosHandler) Cancelar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al cancelar el pedido.")
		return
	}
	responder(c, http.StatusOK, "El pedido se ha cancelado con éxito.", resp)
}

// Listar GET /v1/pedidos lists the caller's own pedidos.
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := h.svc.Listar(c.Request.Context(), solicitante(c), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los pedidos.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("pedidos", list, total, filter.Paginacion))
}

// ListarVendedor GET /v1/pedidos/vendedor
func (h *PedidosHandler) ListarVendedor(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := h.svc.ListarVendedor(c.Request.Context(), solicitante(c), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los pedidos.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("pedidos", list, total, filter.Paginacion))
}

func (h *PedidosHandler) Obtener(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el pedido.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

// Comanda GET /v1/pedidos/:id/comanda
func (h *PedidosHandler) Comanda(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	contenido, nombre, err := h.svc.Comanda(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al generar la comanda.")
		return
	}
	enviarPDF(c, nombre, contenido)
}
