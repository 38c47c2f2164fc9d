package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/martingh15/proyecto-backend/internal/middleware"
	"github.com/martingh15/proyecto-backend/internal/respuesta"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gte=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, respuesta.Error(http.StatusBadRequest, "JSON inválido"))
		return false
	}
	return validar(c, req)
}

// bindQuery binds query string filters and validates them.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, respuesta.Error(http.StatusBadRequest, "Parámetros de búsqueda inválidos"))
		return false
	}
	return validar(c, filter)
}

func validar(c *gin.Context, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, respuesta.Error(http.StatusBadRequest, "Datos inválidos"))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, respuesta.Validacion(http.StatusUnprocessableEntity, fields))
	return false
}

// parseID reads a uuid path parameter, answering 400 when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, respuesta.Error(http.StatusBadRequest, "ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// solicitante builds the caller identity from the JWT claims.
func solicitante(c *gin.Context) service.Solicitante {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Solicitante{}
	}
	return service.Solicitante{ID: claims.UsuarioID(), Roles: claims.Roles, Root: claims.Root}
}

// responderError maps a service error to its status. Uncategorized errors
// are logged and answered with generico.
func responderError(c *gin.Context, err error, generico string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidacion):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNoEncontrado):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNoAutenticado):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNoAutorizado):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConflicto):
		status = http.StatusConflict
	}

	mensaje, ok := service.MensajeDe(err)
	if status == http.StatusInternalServerError || !ok {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg(generico)
		status = http.StatusInternalServerError
		mensaje = generico
	}
	c.JSON(status, respuesta.Error(status, mensaje))
}

func responder(c *gin.Context, status int, mensaje string, datos any) {
	c.JSON(status, respuesta.Exito(mensaje, datos))
}

func enviarPDF(c *gin.Context, nombre string, contenido []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "application/pdf", contenido)
}
