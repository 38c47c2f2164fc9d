package middleware

import (
	"net/http"
	"time"

	"github.com/martingh15/proyecto-backend/internal/respuesta"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const mensajeErrorInterno = "Ha ocurrido un error interno. Intente nuevamente más tarde."

// ErrorHandler turns errors attached with c.Error into a 500 envelope when the
// handler did not write a response. Stack traces never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err.Err).
			Msg("unhandled error")

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, respuesta.Error(http.StatusInternalServerError, mensajeErrorInterno))
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, respuesta.Error(http.StatusInternalServerError, mensajeErrorInterno))
			}
		}()
		c.Next()
	}
}

// NoEncontrado answers unknown routes with the envelope.
func NoEncontrado() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, respuesta.Error(http.StatusNotFound, "Recurso no encontrado"))
	}
}

// Logger logs each request with method, path, status, latency and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
