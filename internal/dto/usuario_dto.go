package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Username      string   `json:"username"      validate:"omitempty,min=1,max=50"`
	Nombre        string   `json:"nombre"        validate:"required,min=2,max=100"`
	Apellido      string   `json:"apellido"      validate:"omitempty,max=100"`
	Email         string   `json:"email"         validate:"required,email,max=254"`
	DNI           *int     `json:"dni"           validate:"omitempty,min=1000000,max=99999999"`
	Direccion     string   `json:"direccion"     validate:"omitempty,max=100"`
	Observaciones string   `json:"observaciones" validate:"omitempty,max=255"`
	Password      string   `json:"password"      validate:"omitempty,min=6,max=72"`
	Roles         []string `json:"roles"         validate:"required,min=1,dive,oneof=root mozo comensal vendedor administrador"`
}

// ActualizarUsuarioRequest updates only the provided fields. An empty
// password keeps the current one.
type ActualizarUsuarioRequest struct {
	Nombre        *string  `json:"nombre"        validate:"omitempty,min=2,max=100"`
	Apellido      *string  `json:"apellido"      validate:"omitempty,max=100"`
	Email         *string  `json:"email"         validate:"omitempty,email,max=254"`
	DNI           *int     `json:"dni"           validate:"omitempty,min=1000000,max=99999999"`
	Direccion     *string  `json:"direccion"     validate:"omitempty,max=100"`
	Observaciones *string  `json:"observaciones" validate:"omitempty,max=255"`
	Password      string   `json:"password"      validate:"omitempty,min=6,max=72"`
	Roles         []string `json:"roles"         validate:"omitempty,min=1,dive,oneof=root mozo comensal vendedor administrador"`
}

type UsuarioFilter struct {
	Nombre string `form:"nombre"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RolResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Legible     string `json:"legible"`
	Descripcion string `json:"descripcion"`
	Root        bool   `json:"root"`
}

type UsuarioResponse struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Nombre        string        `json:"nombre"`
	Apellido      string        `json:"apellido"`
	Email         string        `json:"email"`
	DNI           *int          `json:"dni"`
	Direccion     string        `json:"direccion"`
	Observaciones string        `json:"observaciones"`
	Habilitado    bool          `json:"habilitado"`
	Roles         []RolResponse `json:"roles"`
}

// UsuarioResumen is the compact user shown inside documents.
type UsuarioResumen struct {
	ID             string `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
}

type OperacionResponse struct {
	ID          int      `json:"id"`
	Titular     string   `json:"titular"`
	Roles       []string `json:"roles"`
	Ruta        string   `json:"ruta"`
	Titulo      string   `json:"titulo"`
	Descripcion string   `json:"descripcion"`
}

type YoResponse struct {
	Usuario     UsuarioResponse     `json:"usuario"`
	Operaciones []OperacionResponse `json:"operaciones"`
}
