package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error categories. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidacion    = errors.New("entrada inválida")
	ErrNoEncontrado  = errors.New("recurso no encontrado")
	ErrNoAutenticado = errors.New("no autenticado")
	ErrNoAutorizado  = errors.New("acceso denegado")
	ErrConflicto     = errors.New("conflicto con el estado actual")
)

// Error carries a user-facing message under one of the categories above.
type Error struct {
	Tipo    error
	Mensaje string
}

func (e *Error) Error() string { return e.Mensaje }
func (e *Error) Unwrap() error { return e.Tipo }

func validacion(msg string) error    { return &Error{Tipo: ErrValidacion, Mensaje: msg} }
func noEncontrado(msg string) error  { return &Error{Tipo: ErrNoEncontrado, Mensaje: msg} }
func noAutenticado(msg string) error { return &Error{Tipo: ErrNoAutenticado, Mensaje: msg} }
func noAutorizado(msg string) error  { return &Error{Tipo: ErrNoAutorizado, Mensaje: msg} }
func conflicto(msg string) error     { return &Error{Tipo: ErrConflicto, Mensaje: msg} }

// MensajeDe returns the user-facing message of a categorized error.
func MensajeDe(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Mensaje, true
	}
	return "", false
}

// siNoExiste translates gorm.ErrRecordNotFound into a not-found error with msg
// and passes any other error through.
func siNoExiste(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noEncontrado(msg)
	}
	return err
}
