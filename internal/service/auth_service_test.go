package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/martingh15/proyecto-backend/internal/config"
	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/middleware"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-unit-tests"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		FrontendURL:        "http://localhost:3000/",
		NombreLocal:        "Resto",
	}
}

type authFixture struct {
	svc         service.AuthService
	usuarios    *stubUsuarioRepo
	roles       *stubRolRepo
	notificador *stubNotificador
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		usuarios:    newStubUsuarioRepo(),
		roles:       newStubRolRepo(),
		notificador: &stubNotificador{},
	}
	f.svc = service.NewAuthService(f.usuarios, f.roles, testConfig(), f.notificador)
	return f
}

// usuario stores an enabled user with the given roles and password.
func (f *authFixture) usuario(t *testing.T, email, password string, habilitado bool, roles ...string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	asignados, err := f.roles.FindByNombres(context.Background(), roles)
	require.NoError(t, err)
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     email,
		Nombre:       "Ana",
		Email:        email,
		PasswordHash: string(hash),
		Habilitado:   habilitado,
		Roles:        asignados,
	}
	require.NoError(t, f.usuarios.Create(context.Background(), u))
	return u
}

func TestLogin_Exitoso(t *testing.T) {
	f := newAuthFixture()
	u := f.usuario(t, "ana@test.com", "secreta", true, model.RolVendedor)

	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ANA@test.com", Password: "secreta"})
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	claims, err := middleware.ParseToken(resp.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UsuarioID())
	assert.Equal(t, []string{model.RolVendedor}, claims.Roles)
	assert.False(t, claims.Refresh)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	f := newAuthFixture()
	f.usuario(t, "ana@test.com", "secreta", true, model.RolComensal)

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana@test.com", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrNoAutenticado)

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Username: "nadie@test.com", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrNoAutenticado)
}

func TestLogin_NoHabilitado(t *testing.T) {
	f := newAuthFixture()
	f.usuario(t, "ana@test.com", "secreta", false, model.RolComensal)

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana@test.com", Password: "secreta"})
	assert.ErrorIs(t, err, service.ErrNoAutorizado)
}

func TestRefresh_RechazaAccessToken(t *testing.T) {
	f := newAuthFixture()
	f.usuario(t, "ana@test.com", "secreta", true, model.RolComensal)
	login, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana@test.com", Password: "secreta"})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, service.ErrNoAutenticado)

	renovado, err := f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
}

func TestRegistro_CreaComensalYEnviaActivacion(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
		Nombre:   "Luis",
		Email:    " Luis@Test.com ",
		Password: "secreta",
	})
	require.NoError(t, err)

	assert.Equal(t, "luis@test.com", resp.Email)
	assert.False(t, resp.Habilitado)
	require.Len(t, resp.Roles, 1)
	assert.Equal(t, model.RolComensal, resp.Roles[0].Nombre)

	u, err := f.usuarios.FindByEmail(context.Background(), "luis@test.com")
	require.NoError(t, err)
	require.NotNil(t, u.TokenEmail)
	msg := f.notificador.ultimo()
	assert.Equal(t, "luis@test.com", msg.Para)
	assert.Contains(t, msg.Texto, "http://localhost:3000/validar-email/"+*u.TokenEmail)

	login, err := f.svc.Activar(context.Background(), *u.TokenEmail)
	require.NoError(t, err)
	assert.True(t, login.Usuario.Habilitado)

	_, err = f.svc.Activar(context.Background(), *u.TokenEmail)
	assert.ErrorIs(t, err, service.ErrNoEncontrado, "activation tokens are single use")
}

func TestRegistro_EmailDuplicado(t *testing.T) {
	f := newAuthFixture()
	f.usuario(t, "ana@test.com", "secreta", true, model.RolComensal)

	_, err := f.svc.Registro(context.Background(), dto.RegistroRequest{Nombre: "Ana", Email: "ana@test.com", Password: "secreta"})
	assert.ErrorIs(t, err, service.ErrConflicto)
}

func TestCambiarPassword_ConToken(t *testing.T) {
	f := newAuthFixture()
	u := f.usuario(t, "ana@test.com", "secreta", true, model.RolComensal)

	require.NoError(t, f.svc.OlvidoPassword(context.Background(), dto.OlvidoPasswordRequest{Email: "ana@test.com"}))
	guardado := f.usuarios.usuarios[u.ID]
	require.NotNil(t, guardado.TokenReset)
	token := *guardado.TokenReset
	assert.Len(t, token, 32)
	assert.True(t, strings.Contains(f.notificador.ultimo().Texto, "/cambiar-password/"+token))

	require.NoError(t, f.svc.ValidarTokenPassword(context.Background(), token))
	require.NoError(t, f.svc.CambiarPassword(context.Background(), dto.CambiarPasswordRequest{Token: token, Password: "nueva123"}))

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana@test.com", Password: "nueva123"})
	assert.NoError(t, err)
	assert.ErrorIs(t, f.svc.ValidarTokenPassword(context.Background(), token), service.ErrNoEncontrado)
}

func TestCambiarPassword_TokenVencido(t *testing.T) {
	f := newAuthFixture()
	u := f.usuario(t, "ana@test.com", "secreta", true, model.RolComensal)
	token := strings.Repeat("ab", 16)
	emitido := time.Now().Add(-25 * time.Hour)
	f.usuarios.usuarios[u.ID].TokenReset = &token
	f.usuarios.usuarios[u.ID].FechaTokenReset = &emitido

	err := f.svc.ValidarTokenPassword(context.Background(), token)
	require.ErrorIs(t, err, service.ErrValidacion)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "El link para cambiar la contraseña expiró. Solicite uno nuevo.", msg)
}

func TestOlvidoPassword_EmailDesconocido(t *testing.T) {
	f := newAuthFixture()
	err := f.svc.OlvidoPassword(context.Background(), dto.OlvidoPasswordRequest{Email: "nadie@test.com"})
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}
