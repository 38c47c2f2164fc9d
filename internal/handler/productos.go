package handler

import (
	"net/http"
	"strconv"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), solicitante(c), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al crear el producto.")
		return
	}
	responder(c, http.StatusCreated, "Producto creado con éxito.", resp)
}

// Listar GET /v1/productos/admin
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	productos, total, err := h.svc.Listar(c.Request.Context(), solicitante(c), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los productos.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("productos", productos, total, filter.Paginacion))
}

func (h *ProductosHandler) Obtener(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el producto.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), solicitante(c), id, req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al actualizar el producto.")
		return
	}
	responder(c, http.StatusOK, "Producto actualizado con éxito.", resp)
}

func (h *ProductosHandler) Borrar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	if err := h.svc.Borrar(c.Request.Context(), id); err != nil {
		responderError(c, err, "Ha ocurrido un error al borrar el producto.")
		return
	}
	responder(c, http.StatusOK, "Producto borrado con éxito.", nil)
}

// HistorialPrecios godoc
// @Summary      Historial de precios de un producto
// @Description  Retorna el historial inmutable de cambios de precio y costo de un producto, ordenado por fecha descendente.
// @Tags         productos
// @Security     BearerAuth
// @Param        id    path     string  true  "UUID del producto"
// @Param        page  query    int     false "Página (default 1)"
// @Param        limit query    int     false "Registros por página (default 50, max 200)"
// @Success      200   {object} respuesta.Respuesta
// @Failure      404   {object} respuesta.Respuesta
// @Router       /v1/productos/{id}/precios [get]
func (h *ProductosHandler) HistorialPrecios(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, total, err := h.svc.HistorialPrecios(c.Request.Context(), id, page, limit)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el historial de precios.")
		return
	}
	responder(c, http.StatusOK, "", gin.H{
		"historial": rows,
		"total":     total,
		"pagina":    page,
		"limite":    limit,
	})
}
