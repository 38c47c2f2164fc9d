package handler

import (
	"net/http"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), solicitante(c), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al crear el usuario.")
		return
	}
	responder(c, http.StatusCreated, "Usuario creado con éxito.", resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	var filter dto.UsuarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	users, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los usuarios.")
		return
	}
	responder(c, http.StatusOK, "", dto.Listado("usuarios", users, total, filter.Paginacion))
}

func (h *UsuariosHandler) Obtener(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el usuario.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

// Actualizar PUT /v1/usuarios/:id. Self-service or administrador.
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), solicitante(c), id, req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al actualizar el usuario.")
		return
	}
	responder(c, http.StatusOK, "Usuario actualizado con éxito.", resp)
}

func (h *UsuariosHandler) Borrar(c *gin.Context) {
	id, valido := parseID(c, "id")
	if !valido {
		return
	}
	if err := h.svc.Borrar(c.Request.Context(), solicitante(c), id); err != nil {
		responderError(c, err, "Ha ocurrido un error al borrar el usuario.")
		return
	}
	responder(c, http.StatusOK, "Usuario borrado con éxito.", nil)
}

// Yo returns the caller and the menu entries their roles unlock.
func (h *UsuariosHandler) Yo(c *gin.Context) {
	resp, err := h.svc.Yo(c.Request.Context(), solicitante(c))
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al obtener el usuario.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

func (h *UsuariosHandler) ListarRoles(c *gin.Context) {
	roles, err := h.svc.ListarRoles(c.Request.Context())
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al listar los roles.")
		return
	}
	responder(c, http.StatusOK, "", gin.H{"roles": roles})
}
