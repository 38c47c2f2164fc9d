package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest accepts either the username or the e-mail in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegistroRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=2,max=100"`
	Apellido  string `json:"apellido"  validate:"omitempty,max=100"`
	Email     string `json:"email"     validate:"required,email,max=254"`
	Password  string `json:"password"  validate:"required,min=6,max=72"`
	Direccion string `json:"direccion" validate:"omitempty,max=100"`
	DNI       *int   `json:"dni"       validate:"omitempty,min=1000000,max=99999999"`
}

type OlvidoPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CambiarPasswordRequest struct {
	Token    string `json:"token"    validate:"required,len=32,hexadecimal"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	Usuario      UsuarioResponse `json:"usuario"`
}
