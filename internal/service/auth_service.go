package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/martingh15/proyecto-backend/internal/config"
	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/middleware"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Registro(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
	Activar(ctx context.Context, token string) (*dto.LoginResponse, error)
	OlvidoPassword(ctx context.Context, req dto.OlvidoPasswordRequest) error
	ValidarTokenPassword(ctx context.Context, token string) error
	CambiarPassword(ctx context.Context, req dto.CambiarPasswordRequest) error
}

type authService struct {
	repo        repository.UsuarioRepository
	roles       repository.RolRepository
	cfg         *config.Config
	notificador Notificador
	now         func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, roles repository.RolRepository, cfg *config.Config, notificador Notificador) AuthService {
	return &authService{repo: repo, roles: roles, cfg: cfg, notificador: notificador, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noAutenticado("Usuario o contraseña incorrectos.")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, noAutenticado("Usuario o contraseña incorrectos.")
	}
	if !user.Habilitado {
		return nil, noAutorizado("El usuario no está habilitado. Revise su correo para activar la cuenta.")
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := middleware.ParseToken(refreshToken, s.cfg.JWTSecret)
	if err != nil || !claims.Refresh {
		return nil, noAutenticado("El token de refresco es inválido o expiró.")
	}
	uid := claims.UsuarioID()
	if uid == uuid.Nil {
		return nil, noAutenticado("El token de refresco es inválido o expiró.")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Habilitado {
		return nil, noAutenticado("Usuario no encontrado o inhabilitado.")
	}
	return s.emitirTokens(user)
}

func (s *authService) Registro(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existe, err := s.repo.ExisteEmail(ctx, email, nil)
	if err != nil {
		return nil, err
	}
	if !existe {
		if existe, err = s.repo.ExisteLogin(ctx, email, nil); err != nil {
			return nil, err
		}
	}
	if existe {
		return nil, conflicto("Ya existe un usuario registrado con ese email.")
	}
	if req.DNI != nil {
		existe, err := s.repo.ExisteDNI(ctx, *req.DNI, nil)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, conflicto("Ya existe un usuario registrado con ese DNI.")
		}
	}

	roles, err := s.roles.FindByNombres(ctx, []string{model.RolComensal})
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	token, err := tokenAleatorio()
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		ID:           uuid.New(),
		Username:     email,
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Email:        email,
		DNI:          req.DNI,
		Direccion:    req.Direccion,
		PasswordHash: string(hash),
		Habilitado:   false,
		TokenEmail:   &token,
		Roles:        roles,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/validar-email/%s", strings.TrimRight(s.cfg.FrontendURL, "/"), token)
	s.encolar(ctx, infra.Mensaje{
		Para:   user.Email,
		Asunto: "Activá tu cuenta en " + s.cfg.NombreLocal,
		Texto: fmt.Sprintf("Hola %s,\n\nPara activar tu cuenta ingresá al siguiente enlace:\n%s\n",
			user.Nombre, link),
	})

	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) Activar(ctx context.Context, token string) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByTokenEmail(ctx, token)
	if err != nil {
		return nil, siNoExiste(err, "El link de activación es inválido.")
	}
	user.Habilitado = true
	user.TokenEmail = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.emitirTokens(user)
}

func (s *authService) OlvidoPassword(ctx context.Context, req dto.OlvidoPasswordRequest) error {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return siNoExiste(err, "No existe un usuario registrado con ese email.")
	}
	token, err := tokenAleatorio()
	if err != nil {
		return err
	}
	ahora := s.now()
	user.TokenReset = &token
	user.FechaTokenReset = &ahora
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/cambiar-password/%s", strings.TrimRight(s.cfg.FrontendURL, "/"), token)
	s.encolar(ctx, infra.Mensaje{
		Para:   user.Email,
		Asunto: "Recuperación de contraseña",
		Texto: fmt.Sprintf("Hola %s,\n\nPara elegir una nueva contraseña ingresá al siguiente enlace:\n%s\n\nEl enlace vence en 24 horas.\n",
			user.Nombre, link),
	})
	return nil
}

func (s *authService) ValidarTokenPassword(ctx context.Context, token string) error {
	_, err := s.usuarioPorTokenReset(ctx, token)
	return err
}

func (s *authService) CambiarPassword(ctx context.Context, req dto.CambiarPasswordRequest) error {
	user, err := s.usuarioPorTokenReset(ctx, req.Token)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.TokenReset = nil
	user.FechaTokenReset = nil
	return s.repo.Update(ctx, user)
}

func (s *authService) usuarioPorTokenReset(ctx context.Context, token string) (*model.Usuario, error) {
	user, err := s.repo.FindByTokenReset(ctx, token)
	if err != nil {
		return nil, siNoExiste(err, "El link para cambiar la contraseña es inválido.")
	}
	if !user.TokenResetVigente(s.now()) {
		return nil, validacion("El link para cambiar la contraseña expiró. Solicite uno nuevo.")
	}
	return user, nil
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	access, err := generarToken(user, s.cfg.JWTSecret, time.Duration(s.cfg.JWTExpirationHours)*time.Hour, false)
	if err != nil {
		return nil, err
	}
	refresh, err := generarToken(user, s.cfg.JWTSecret, time.Duration(s.cfg.JWTRefreshHours)*time.Hour, true)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Usuario:      usuarioToResponse(user),
	}, nil
}

func (s *authService) encolar(ctx context.Context, msg infra.Mensaje) {
	if s.notificador == nil {
		return
	}
	if err := s.notificador.EnqueueEmail(ctx, msg); err != nil {
		log.Error().Err(err).Str("para", msg.Para).Msg("auth: no se pudo encolar el email")
	}
}

func generarToken(user *model.Usuario, secret string, ttl time.Duration, refresh bool) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Roles:    user.NombresRoles(),
		Root:     user.EsRoot(),
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// tokenAleatorio returns 32 hex characters from crypto/rand.
func tokenAleatorio() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
