package handler

import (
	"net/http"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the public product catalog.
// No authentication required and no side effects.
type CatalogoHandler struct{ svc service.ProductoService }

func NewCatalogoHandler(svc service.ProductoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// Listar godoc
// @Summary Catálogo público de productos (sin autenticación)
// @Tags productos
// @Produce json
// @Param nombre    query string false "Nombre contiene"
// @Param categoria query string false "UUID de la categoría"
// @Success 200 {object} respuesta.Respuesta
// @Router /v1/productos [get]
func (h *CatalogoHandler) Listar(c *gin.Context) {
	var filter dto.CatalogoFilter
	if !bindQuery(c, &filter) {
		return
	}
	productos, err := h.svc.Catalogo(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los productos.")
		return
	}
	responder(c, http.StatusOK, "", gin.H{"productos": productos})
}

// Obtener godoc
// @Summary Producto del catálogo público
// @Tags productos
// @Produce json
// @Param id path string true "UUID del producto"
// @Success 200 {object} respuesta.Respuesta{datos=dto.ProductoPublicoResponse}
// @Failure 404 {object} respuesta.Respuesta
// @Router /v1/productos/{id} [get]
func (h *CatalogoHandler) Obtener(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.ObtenerPublico(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el producto.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}
