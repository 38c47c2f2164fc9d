package service_test

import (
	"context"
	"testing"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearCategoria_NombreDuplicado(t *testing.T) {
	repo := newStubCategoriaRepo()
	svc := service.NewCategoriaService(repo, nil)

	_, err := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: " Bebidas "})
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "bebidas"})
	require.ErrorIs(t, err, service.ErrConflicto)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "Ya existe una categoría con ese nombre", msg)
}

func TestActualizarCategoria_MismoNombreOtraCapitalizacion(t *testing.T) {
	repo := newStubCategoriaRepo()
	svc := service.NewCategoriaService(repo, nil)
	c, err := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Bebidas"})
	require.NoError(t, err)

	nombre := "BEBIDAS"
	resp, err := svc.Actualizar(context.Background(), uuid.MustParse(c.ID), dto.ActualizarCategoriaRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "BEBIDAS", resp.Nombre)
}

func TestBorrarCategoria_ConProductosActivos(t *testing.T) {
	repo := newStubCategoriaRepo()
	svc := service.NewCategoriaService(repo, nil)
	c, err := svc.Crear(context.Background(), dto.CrearCategoriaRequest{Nombre: "Postres"})
	require.NoError(t, err)
	id := uuid.MustParse(c.ID)
	repo.activos[id] = 2

	err = svc.Borrar(context.Background(), id)
	require.ErrorIs(t, err, service.ErrConflicto)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "La categoría no se puede borrar porque está relacionada con un producto activo", msg)

	repo.activos[id] = 0
	require.NoError(t, svc.Borrar(context.Background(), id))
	list, err := svc.Listar(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
