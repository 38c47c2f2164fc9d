package handler

import (
	"net/http"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} respuesta.Respuesta{datos=dto.LoginResponse}
// @Failure 401 {object} respuesta.Respuesta
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al iniciar sesión.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al renovar la sesión.")
		return
	}
	responder(c, http.StatusOK, "", resp)
}

// Registro godoc
// @Summary Registro público de comensales
// @Description Crea un usuario deshabilitado y envía el email de activación.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegistroRequest true "Datos del usuario"
// @Success 201 {object} respuesta.Respuesta{datos=dto.UsuarioResponse}
// @Failure 409 {object} respuesta.Respuesta
// @Router /v1/auth/registro [post]
func (h *AuthHandler) Registro(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registro(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al registrar el usuario.")
		return
	}
	responder(c, http.StatusCreated, "Te enviamos un email para activar tu cuenta.", resp)
}

func (h *AuthHandler) Activar(c *gin.Context) {
	resp, err := h.svc.Activar(c.Request.Context(), c.Param("token"))
	if err != nil {
		responderError(c, err, "Ha ocurrido un error al activar la cuenta.")
		return
	}
	responder(c, http.StatusOK, "Cuenta activada con éxito.", resp)
}

func (h *AuthHandler) OlvidoPassword(c *gin.Context) {
	var req dto.OlvidoPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.OlvidoPassword(c.Request.Context(), req); err != nil {
		responderError(c, err, "Ha ocurrido un error al solicitar el cambio de contraseña.")
		return
	}
	responder(c, http.StatusOK, "Te enviamos un email para elegir una nueva contraseña.", nil)
}

func (h *AuthHandler) ValidarTokenPassword(c *gin.Context) {
	if err := h.svc.ValidarTokenPassword(c.Request.Context(), c.Param("token")); err != nil {
		responderError(c, err, "Ha ocurrido un error al validar el link.")
		return
	}
	responder(c, http.StatusOK, "", nil)
}

func (h *AuthHandler) CambiarPassword(c *gin.Context) {
	var req dto.CambiarPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarPassword(c.Request.Context(), req); err != nil {
		responderError(c, err, "Ha ocurrido un error al cambiar la contraseña.")
		return
	}
	responder(c, http.StatusOK, "La contraseña se cambió con éxito.", nil)
}
