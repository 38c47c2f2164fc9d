// Package respuesta provides the uniform response envelope for the API.
// Every handler writes through this package so clients always receive
// {exito, mensaje, codigo, datos} and internal details never leak.
package respuesta

// Respuesta is the canonical envelope for every HTTP response.
type Respuesta struct {
	Exito   bool   `json:"exito"`
	Mensaje string `json:"mensaje"`
	Codigo  int    `json:"codigo,omitempty"`
	Datos   any    `json:"datos,omitempty"`
}

// Exito wraps a successful payload.
func Exito(mensaje string, datos any) *Respuesta {
	return &Respuesta{Exito: true, Mensaje: mensaje, Datos: datos}
}

// Error builds a failure envelope. codigo is usually the HTTP status.
func Error(codigo int, mensaje string) *Respuesta {
	return &Respuesta{Exito: false, Mensaje: mensaje, Codigo: codigo}
}

// Validacion wraps field errors under datos.campos.
func Validacion(codigo int, campos map[string]string) *Respuesta {
	return &Respuesta{
		Exito:   false,
		Mensaje: "Error de validación",
		Codigo:  codigo,
		Datos:   map[string]any{"campos": campos},
	}
}
