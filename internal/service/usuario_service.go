package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UsuarioService interface {
	Crear(ctx context.Context, sol Solicitante, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, s Solicitante, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	Listar(ctx context.Context, filter dto.UsuarioFilter) ([]dto.UsuarioResponse, int64, error)
	Borrar(ctx context.Context, s Solicitante, id uuid.UUID) error
	Yo(ctx context.Context, s Solicitante) (*dto.YoResponse, error)
	ListarRoles(ctx context.Context) ([]dto.RolResponse, error)
}

type usuarioService struct {
	repo  repository.UsuarioRepository
	roles repository.RolRepository
}

func NewUsuarioService(repo repository.UsuarioRepository, roles repository.RolRepository) UsuarioService {
	return &usuarioService{repo: repo, roles: roles}
}

// Crear registers a user on behalf of an administrador. The password defaults
// to the DNI when omitted and the username to the e-mail.
func (s *usuarioService) Crear(ctx context.Context, sol Solicitante, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = email
	}
	if err := s.validarUnicos(ctx, username, email, req.DNI, nil); err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		if req.DNI == nil {
			return nil, validacion("Debe indicar una contraseña o el DNI del usuario.")
		}
		password = strconv.Itoa(*req.DNI)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	roles, err := s.buscarRoles(ctx, sol, req.Roles)
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		ID:            uuid.New(),
		Username:      username,
		Nombre:        req.Nombre,
		Apellido:      req.Apellido,
		Email:         email,
		DNI:           req.DNI,
		Direccion:     req.Direccion,
		Observaciones: req.Observaciones,
		PasswordHash:  string(hash),
		Habilitado:    true,
		Roles:         roles,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, sol Solicitante, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if sol.ID != id && !sol.EsAdministrador() {
		return nil, noAutorizado("No está habilitado para modificar este usuario.")
	}
	if len(req.Roles) > 0 && !sol.EsAdministrador() {
		return nil, noAutorizado("Solo un administrador puede modificar los roles.")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, "El usuario no existe.")
	}

	var email string
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if err := s.validarUnicos(ctx, "", email, req.DNI, &id); err != nil {
		return nil, err
	}
	var roles []model.Rol
	if len(req.Roles) > 0 {
		if roles, err = s.buscarRoles(ctx, sol, req.Roles); err != nil {
			return nil, err
		}
	}

	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		user.Apellido = *req.Apellido
	}
	if email != "" {
		user.Email = email
	}
	if req.DNI != nil {
		user.DNI = req.DNI
	}
	if req.Direccion != nil {
		user.Direccion = *req.Direccion
	}
	if req.Observaciones != nil {
		user.Observaciones = *req.Observaciones
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if len(roles) > 0 {
		if err := s.repo.ReemplazarRoles(ctx, user, roles); err != nil {
			return nil, err
		}
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, "El usuario no existe.")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) Listar(ctx context.Context, filter dto.UsuarioFilter) ([]dto.UsuarioResponse, int64, error) {
	filter.Normalizar()
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		out = append(out, usuarioToResponse(&users[i]))
	}
	return out, total, nil
}

func (s *usuarioService) Borrar(ctx context.Context, sol Solicitante, id uuid.UUID) error {
	if sol.ID == id {
		return validacion("No puede borrar su propio usuario.")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return siNoExiste(err, "El usuario no existe.")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *usuarioService) Yo(ctx context.Context, sol Solicitante) (*dto.YoResponse, error) {
	user, err := s.repo.FindByID(ctx, sol.ID)
	if err != nil {
		return nil, siNoExiste(err, "El usuario no existe.")
	}
	// roles come from the stored user, not the token, so changes apply at once
	actual := Solicitante{ID: user.ID, Roles: user.NombresRoles(), Root: user.EsRoot()}
	return &dto.YoResponse{
		Usuario:     usuarioToResponse(user),
		Operaciones: OperacionesPara(actual),
	}, nil
}

func (s *usuarioService) ListarRoles(ctx context.Context) ([]dto.RolResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RolResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, rolToResponse(r))
	}
	return out, nil
}

// validarUnicos keeps login identifiers unambiguous: no username or e-mail
// may match another active user's username or e-mail.
func (s *usuarioService) validarUnicos(ctx context.Context, username, email string, dni *int, excluir *uuid.UUID) error {
	if email != "" {
		existe, err := s.repo.ExisteEmail(ctx, email, excluir)
		if err != nil {
			return err
		}
		if !existe {
			existe, err = s.repo.ExisteLogin(ctx, email, excluir)
			if err != nil {
				return err
			}
		}
		if existe {
			return conflicto("Ya existe un usuario registrado con ese email.")
		}
	}
	if username != "" && !strings.EqualFold(username, email) {
		existe, err := s.repo.ExisteLogin(ctx, username, excluir)
		if err != nil {
			return err
		}
		if existe {
			return conflicto("Ya existe un usuario con ese nombre de usuario.")
		}
	}
	if dni != nil {
		existe, err := s.repo.ExisteDNI(ctx, *dni, excluir)
		if err != nil {
			return err
		}
		if existe {
			return conflicto("Ya existe un usuario registrado con ese DNI.")
		}
	}
	return nil
}

func (s *usuarioService) buscarRoles(ctx context.Context, sol Solicitante, nombres []string) ([]model.Rol, error) {
	for _, n := range nombres {
		if !model.EsRolValido(n) {
			return nil, validacion("El rol " + n + " no existe.")
		}
		if n == model.RolRoot && !sol.Root {
			return nil, noAutorizado("Solo un usuario root puede asignar el rol root.")
		}
	}
	roles, err := s.roles.FindByNombres(ctx, nombres)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, validacion("Debe indicar al menos un rol válido.")
	}
	return roles, nil
}
