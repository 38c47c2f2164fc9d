package handler

import (
	"net/http"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una venta en el local
// @Description  Crea la venta con los precios vigentes, descuenta stock y calcula el vuelto.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} respuesta.Respuesta{datos=dto.VentaResponse}
// @Failure      400  {object} respuesta.Respuesta
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarLocal(c.Request.Context(), solicitante(c), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al registrar la venta.")
		return
	}
	responder(c, http.StatusCreated, "Venta registrada con éxito.", resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Anula una venta: restaura stock y cancela el pedido en preparación asociado.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      200  {object} respuesta.Respuesta{datos=dto.VentaResponse}
// @Failure      409  {object} respuesta.Respuesta
// @Router       /v1/ventas/{id}/anular [post]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al anular la venta.")
		return
	}
	responder(c, http.StatusOK, "Venta anulada con éxito.", resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        numero      query int    false "Número"
// @Param        fecha_desde query string false "Desde (YYYY-MM-DD)"
// @Param        fecha_hasta query string false "Hasta (YYYY-MM-DD)"
// @Param        tipo        query string false "online | local"
// @Param        estado      query string false "activa | anulada"
// @Success      200  {object} respuesta.Respuesta
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := h.svc.Listar(c.Request.Context(), solicitante(c), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar las ventas.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("ventas", list, total, filter.Paginacion))
}

func (h *VentasHandler) Obtener(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener la venta.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

// Ticket GET /v1/ventas/:id/ticket
func (h *VentasHandler) Ticket(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	contenido, nombre, err := h.svc.Ticket(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al generar el ticket.")
		return
	}
	enviarPDF(c, nombre, contenido)
}
