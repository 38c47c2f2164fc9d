package handler

import (
	"net/http"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// StockHandler serves ingresos, reemplazos de mercadería and movimientos.
type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// CrearIngreso godoc
// @Summary      Registrar ingreso de mercadería
// @Description  Suma stock por cada línea y actualiza el costo vigente cuando cambia.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearIngresoRequest true "Líneas del ingreso"
// @Success      201  {object} respuesta.Respuesta{datos=dto.DocumentoStockResponse}
// @Failure      400  {object} respuesta.Respuesta
// @Router       /v1/ingresos [post]
func (h *StockHandler) CrearIngreso(c *gin.Context) {
	var req dto.CrearIngresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearIngreso(c.Request.Context(), solicitante(c), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al registrar el ingreso.")
		return
	}
	responder(c, http.StatusCreated, "Ingreso registrado con éxito.", resp)
}

func (h *StockHandler) ListarIngresos(c *gin.Context) {
	var filter dto.DocumentoStockFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := h.svc.ListarIngresos(c.Request.Context(), solicitante(c), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los ingresos.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("ingresos", list, total, filter.Paginacion))
}

func (h *StockHandler) ObtenerIngreso(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.ObtenerIngreso(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el ingreso.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

// AnularIngreso godoc
// @Summary      Anular ingreso
// @Description  Marca el ingreso y sus movimientos como anulados. El stock no se revierte.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID del ingreso"
// @Success      200  {object} respuesta.Respuesta{datos=dto.DocumentoStockResponse}
// @Failure      409  {object} respuesta.Respuesta
// @Router       /v1/ingresos/{id}/anular [post]
func (h *StockHandler) AnularIngreso(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.AnularIngreso(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al anular el ingreso.")
		return
	}
	responder(c, http.StatusOK, "Ingreso anulado con éxito.", resp)
}

func (h *StockHandler) CrearReemplazo(c *gin.Context) {
	var req dto.CrearReemplazoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearReemplazo(c.Request.Context(), solicitante(c), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al registrar el reemplazo de mercadería.")
		return
	}
	responder(c, http.StatusCreated, "Reemplazo de mercadería registrado con éxito.", resp)
}

func (h *StockHandler) ListarReemplazos(c *gin.Context) {
	var filter dto.DocumentoStockFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := h.svc.ListarReemplazos(c.Request.Context(), solicitante(c), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los reemplazos de mercadería.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("reemplazos", list, total, filter.Paginacion))
}

func (h *StockHandler) ObtenerReemplazo(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.ObtenerReemplazo(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el reemplazo de mercadería.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

func (h *StockHandler) AnularReemplazo(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.AnularReemplazo(c.Request.Context(), solicitante(c), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al anular el reemplazo de mercadería.")
		return
	}
	responder(c, http.StatusOK, "Reemplazo de mercadería anulado con éxito.", resp)
}

// ListarMovimientos GET /v1/movimientos
func (h *StockHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los movimientos de stock.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("movimientos", list, total, filter.Paginacion))
}
