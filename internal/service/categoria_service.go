package service

import (
	"context"
	"strings"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Borrar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo  repository.CategoriaRepository
	cache *infra.Cache
}

func NewCategoriaService(repo repository.CategoriaRepository, cache *infra.Cache) CategoriaService {
	return &categoriaService{repo: repo, cache: cache}
}

const msgCategoriaDuplicada = "Ya existe una categoría con ese nombre"

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	existe, err := s.repo.ExisteNombre(ctx, nombre, nil)
	if err != nil {
		return dto.CategoriaResponse{}, err
	}
	if existe {
		return dto.CategoriaResponse{}, conflicto(msgCategoriaDuplicada)
	}

	c := &model.Categoria{
		ID:          uuid.New(),
		Nombre:      nombre,
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	s.cache.Invalidate(ctx, infra.CacheCategorias)
	return categoriaToResponse(c), nil
}

// Listar is served from the cache when available.
func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	var result []dto.CategoriaResponse
	err := s.cache.GetOrLoadJSON(ctx, infra.CacheCategorias, &result, func(ctx context.Context) (any, error) {
		list, err := s.repo.Listar(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoriaResponse, 0, len(list))
		for i := range list {
			out = append(out, categoriaToResponse(&list[i]))
		}
		return out, nil
	})
	return result, err
}

func (s *categoriaService) Obtener(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, siNoExiste(err, "La categoría no existe.")
	}
	return categoriaToResponse(c), nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, siNoExiste(err, "La categoría no existe.")
	}

	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		if !strings.EqualFold(nombre, c.Nombre) {
			existe, err := s.repo.ExisteNombre(ctx, nombre, &id)
			if err != nil {
				return dto.CategoriaResponse{}, err
			}
			if existe {
				return dto.CategoriaResponse{}, conflicto(msgCategoriaDuplicada)
			}
		}
		c.Nombre = nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = *req.Descripcion
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	s.cache.Invalidate(ctx, infra.CacheCategorias)
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)
	return categoriaToResponse(c), nil
}

// Borrar soft-deletes a category that no active product references.
func (s *categoriaService) Borrar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		return siNoExiste(err, "La categoría no existe.")
	}
	n, err := s.repo.ContarProductosActivos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflicto("La categoría no se puede borrar porque está relacionada con un producto activo")
	}
	if err := s.repo.Borrar(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, infra.CacheCategorias)
	return nil
}
