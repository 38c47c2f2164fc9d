package handler

import (
	"net/http"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Crear POST /v1/categorias
func (h *CategoriasHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al crear la categoría.")
		return
	}
	responder(c, http.StatusCreated, "Categoría creada con éxito.", resp)
}

// Listar GET /v1/categorias
func (h *CategoriasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar las categorías.")
		return
	}
	responder(c, http.StatusOK, "", gin.H{"categorias": resp})
}

// Obtener GET /v1/categorias/:id
func (h *CategoriasHandler) Obtener(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener la categoría.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

// Actualizar PUT /v1/categorias/:id
func (h *CategoriasHandler) Actualizar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	var req dto.ActualizarCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al actualizar la categoría.")
		return
	}
	responder(c, http.StatusOK, "Categoría actualizada con éxito.", resp)
}

// Borrar DELETE /v1/categorias/:id
func (h *CategoriasHandler) Borrar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	if err := h.svc.Borrar(c.Request.Context(), id); err != nil {
		responderError(c, err, "Ha ocurrido un error al borrar la categoría.")
		return
	}
	responder(c, http.StatusOK, "Categoría borrada con éxito.", nil)
}
