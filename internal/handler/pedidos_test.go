package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/handler"
	"github.com/martingh15/proyecto-backend/internal/middleware"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// stubPedidoService returns canned results and records the caller.
type stubPedidoService struct {
	sol      service.Solicitante
	guardado *dto.GuardarPedidoRequest
	err      error
	pedido   *dto.PedidoResponse
	cerrado  bool
}

var _ service.PedidoService = (*stubPedidoService)(nil)

func (s *stubPedidoService) Guardar(_ context.Context, sol service.Solicitante, req dto.GuardarPedidoRequest) (*dto.PedidoResponse, error) {
	s.sol, s.guardado = sol, &req
	if len(req.Lineas) == 0 {
		return nil, s.err
	}
	return s.pedido, s.err
}

func (s *stubPedidoService) ObtenerAbierto(_ context.Context, sol service.Solicitante) (*dto.PedidoResponse, bool, error) {
	s.sol = sol
	return s.pedido, s.cerrado, s.err
}

func (s *stubPedidoService) Cerrar(_ context.Context, sol service.Solicitante, _ uuid.UUID, _ dto.CerrarPedidoRequest) (*dto.PedidoResponse, error) {
	s.sol = sol
	return s.pedido, s.err
}

func (s *stubPedidoService) Entregar(_ context.Context, sol service.Solicitante, _ uuid.UUID) (*dto.PedidoResponse, error) {
	s.sol = sol
	return s.pedido, s.err
}

func (s *stubPedidoService) Cancelar(_ context.Context, sol service.Solicitante, _ uuid.UUID) (*dto.PedidoResponse, error) {
	s.sol = sol
	return s.pedido, s.err
}

func (s *stubPedidoService) Listar(_ context.Context, sol service.Solicitante, _ dto.PedidoFilter) ([]dto.PedidoResponse, int64, error) {
	s.sol = sol
	if s.pedido == nil {
		return nil, 0, s.err
	}
	return []dto.PedidoResponse{*s.pedido}, 1, s.err
}

func (s *stubPedidoService) ListarVendedor(ctx context.Context, sol service.Solicitante, f dto.PedidoFilter) ([]dto.PedidoResponse, int64, error) {
	return s.Listar(ctx, sol, f)
}

func (s *stubPedidoService) Obtener(_ context.Context, sol service.Solicitante, _ uuid.UUID) (*dto.PedidoResponse, error) {
	s.sol = sol
	return s.pedido, s.err
}

func (s *stubPedidoService) Comanda(_ context.Context, _ service.Solicitante, _ uuid.UUID) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "comanda-P00001.pdf", s.err
}

type envelope struct {
	Exito   bool            `json:"exito"`
	Mensaje string          `json:"mensaje"`
	Codigo  int             `json:"codigo"`
	Datos   json.RawMessage `json:"datos"`
}

func newPedidosRouter(svc service.PedidoService, claims *middleware.JWTClaims) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
		c.Next()
	})
	h := handler.NewPedidosHandler(svc)
	r.POST("/v1/pedidos", h.Guardar)
	r.GET("/v1/pedidos", h.Listar)
	r.GET("/v1/pedidos/abierto", h.Abierto)
	r.GET("/v1/pedidos/:id", h.Obtener)
	r.PUT("/v1/pedidos/:id/cerrar", h.Cerrar)
	r.POST("/v1/pedidos/:id/entregar", h.Entregar)
	r.POST("/v1/pedidos/:id/cancelar", h.Cancelar)
	r.GET("/v1/pedidos/:id/comanda", h.Comanda)
	return r
}

func call(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func comensalClaims() *middleware.JWTClaims {
	return &middleware.JWTClaims{UserID: uuid.NewString(), Roles: []string{"comensal"}}
}

func TestGuardarPedido_PasaSolicitante(t *testing.T) {
	svc := &stubPedidoService{pedido: &dto.PedidoResponse{Numero: "P00001", Estado: "ABIERTO"}}
	claims := comensalClaims()
	r := newPedidosRouter(svc, claims)

	w, env := call(t, r, http.MethodPost, "/v1/pedidos", map[string]any{
		"lineas": []map[string]any{{"producto_id": uuid.NewString(), "cantidad": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Exito)
	assert.Contains(t, string(env.Datos), `"numero":"P00001"`)
	assert.Equal(t, claims.UsuarioID(), svc.sol.ID)
	assert.Equal(t, []string{"comensal"}, svc.sol.Roles)
}

func TestGuardarPedido_ListaVaciaBorra(t *testing.T) {
	r := newPedidosRouter(&stubPedidoService{}, comensalClaims())

	w, env := call(t, r, http.MethodPost, "/v1/pedidos", map[string]any{"lineas": []any{}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pedido":"borrado"}`, string(env.Datos))
}

func TestGuardarPedido_Validacion(t *testing.T) {
	svc := &stubPedidoService{}
	r := newPedidosRouter(svc, comensalClaims())

	w, env := call(t, r, http.MethodPost, "/v1/pedidos", map[string]any{
		"lineas": []map[string]any{{"producto_id": "no-uuid", "cantidad": 0}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Exito)
	assert.Contains(t, string(env.Datos), "campos")
	assert.Nil(t, svc.guardado, "service not called")
}

func TestPedidoHandler_MapeaErrores(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validacion", &service.Error{Tipo: service.ErrValidacion, Mensaje: "El pedido ya fue entregado."}, http.StatusBadRequest, "El pedido ya fue entregado."},
		{"no encontrado", &service.Error{Tipo: service.ErrNoEncontrado, Mensaje: "El pedido no existe."}, http.StatusNotFound, "El pedido no existe."},
		{"no autorizado", &service.Error{Tipo: service.ErrNoAutorizado, Mensaje: "No autorizado."}, http.StatusForbidden, "No autorizado."},
		{"conflicto", &service.Error{Tipo: service.ErrConflicto, Mensaje: "Ya cancelado."}, http.StatusConflict, "Ya cancelado."},
		{"interno", assert.AnError, http.StatusInternalServerError, "Ha ocurrido un error al entregar el pedido."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newPedidosRouter(&stubPedidoService{err: tt.err}, comensalClaims())
			w, env := call(t, r, http.MethodPost, "/v1/pedidos/"+uuid.NewString()+"/entregar", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Exito)
			assert.Equal(t, tt.status, env.Codigo)
			assert.Equal(t, tt.msg, env.Mensaje)
		})
	}
}

func TestPedidoHandler_IDInvalido(t *testing.T) {
	r := newPedidosRouter(&stubPedidoService{}, comensalClaims())
	w, env := call(t, r, http.MethodGet, "/v1/pedidos/123", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ID inválido", env.Mensaje)
}

func TestCerrarPedido_MensajeYDelivery(t *testing.T) {
	svc := &stubPedidoService{pedido: &dto.PedidoResponse{Estado: "CERRADO"}}
	r := newPedidosRouter(svc, comensalClaims())
	path := "/v1/pedidos/" + uuid.NewString() + "/cerrar"

	w, _ := call(t, r, http.MethodPut, path, map[string]any{"delivery": true})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "delivery needs a direccion")

	w, env := call(t, r, http.MethodPut, path, map[string]any{"delivery": true, "direccion": "Mitre 55"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MensajePedidoCerrado, env.Mensaje)
}

func TestPedidoHandler_MensajesDeExito(t *testing.T) {
	tests := []struct {
		accion string
		msg    string
	}{
		{"entregar", "El pedido se ha entregado con éxito."},
		{"cancelar", "El pedido se ha cancelado con éxito."},
	}
	for _, tt := range tests {
		t.Run(tt.accion, func(t *testing.T) {
			r := newPedidosRouter(&stubPedidoService{pedido: &dto.PedidoResponse{Numero: "P00003"}}, comensalClaims())
			w, env := call(t, r, http.MethodPost, "/v1/pedidos/"+uuid.NewString()+"/"+tt.accion, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.True(t, env.Exito)
			assert.Equal(t, tt.msg, env.Mensaje)
		})
	}
}

func TestPedidoAbierto_Cerrado(t *testing.T) {
	r := newPedidosRouter(&stubPedidoService{cerrado: true}, comensalClaims())
	w, env := call(t, r, http.MethodGet, "/v1/pedidos/abierto", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cerrado":true}`, string(env.Datos))
}

func TestListarPedidos_Paginado(t *testing.T) {
	r := newPedidosRouter(&stubPedidoService{pedido: &dto.PedidoResponse{Numero: "P00002"}}, comensalClaims())
	w, env := call(t, r, http.MethodGet, "/v1/pedidos?pagina=2&registros_por_pagina=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var datos struct {
		Pedidos            []dto.PedidoResponse `json:"pedidos"`
		Total              int64                `json:"total"`
		Pagina             int                  `json:"pagina"`
		RegistrosPorPagina int                  `json:"registros_por_pagina"`
	}
	require.NoError(t, json.Unmarshal(env.Datos, &datos))
	assert.Len(t, datos.Pedidos, 1)
	assert.Equal(t, int64(1), datos.Total)
	assert.Equal(t, 2, datos.Pagina)
	assert.Equal(t, 10, datos.RegistrosPorPagina)

	w, _ = call(t, r, http.MethodGet, "/v1/pedidos?registros_por_pagina=500", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestComanda_DevuelvePDF(t *testing.T) {
	r := newPedidosRouter(&stubPedidoService{}, comensalClaims())
	w, _ := call(t, r, http.MethodGet, "/v1/pedidos/"+uuid.NewString()+"/comanda", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "comanda-P00001.pdf")
}
