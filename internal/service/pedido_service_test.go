package service_test

import (
	"context"
	"testing"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pedidoFixture struct {
	svc         service.PedidoService
	pedidos     *stubPedidoRepo
	ventas      *stubVentaRepo
	productos   *stubProductoRepo
	movimientos *stubMovimientoRepo
	comensal    service.Solicitante
	vendedor    service.Solicitante
}

func newPedidoFixture() *pedidoFixture {
	f := &pedidoFixture{
		pedidos:     newStubPedidoRepo(),
		ventas:      newStubVentaRepo(),
		productos:   newStubProductoRepo(),
		movimientos: &stubMovimientoRepo{},
		comensal:    service.Solicitante{ID: uuid.New(), Roles: []string{model.RolComensal}},
		vendedor:    service.Solicitante{ID: uuid.New(), Roles: []string{model.RolVendedor}},
	}
	f.svc = service.NewPedidoService(f.pedidos, f.ventas, f.productos, f.movimientos, nil, "Resto")
	return f
}

// abierto saves a cart with one line of producto and returns its id.
func (f *pedidoFixture) abierto(t *testing.T, p *model.Producto, cantidad int) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Guardar(context.Background(), f.comensal, dto.GuardarPedidoRequest{
		Lineas: []dto.LineaPedidoRequest{{ProductoID: p.ID.String(), Cantidad: cantidad}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	return uuid.MustParse(resp.ID)
}

func (f *pedidoFixture) cerrado(t *testing.T, p *model.Producto, cantidad int) uuid.UUID {
	t.Helper()
	id := f.abierto(t, p, cantidad)
	_, err := f.svc.Cerrar(context.Background(), f.comensal, id, dto.CerrarPedidoRequest{})
	require.NoError(t, err)
	return id
}

func TestGuardarPedido_CreaAbiertoConTotal(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")

	resp, err := f.svc.Guardar(context.Background(), f.comensal, dto.GuardarPedidoRequest{
		Lineas: []dto.LineaPedidoRequest{{ProductoID: pizza.ID.String(), Cantidad: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, string(model.EstadoAbierto), resp.Estado)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(3000)), "total: %s", resp.Total)
	require.Len(t, resp.Lineas, 1)
	require.Len(t, resp.Estados, 1)
	assert.Equal(t, string(model.EstadoAbierto), resp.Estados[0].Estado)
	assert.Equal(t, 10, f.productos.productos[pizza.ID].Stock, "saving a cart does not move stock")
}

func TestGuardarPedido_ReemplazaLineas(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	empanada := f.productos.agregar("Empanada", 50, "300.00", "100.00")
	id := f.abierto(t, pizza, 1)

	resp, err := f.svc.Guardar(context.Background(), f.comensal, dto.GuardarPedidoRequest{
		Lineas: []dto.LineaPedidoRequest{{ProductoID: empanada.ID.String(), Cantidad: 6}},
	})
	require.NoError(t, err)

	assert.Equal(t, id.String(), resp.ID, "the open pedido is reused")
	require.Len(t, resp.Lineas, 1)
	assert.Equal(t, empanada.ID.String(), resp.Lineas[0].ProductoID)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1800)))
}

func TestGuardarPedido_ListaVaciaBorra(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	f.abierto(t, pizza, 1)

	resp, err := f.svc.Guardar(context.Background(), f.comensal, dto.GuardarPedidoRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, f.pedidos.pedidos)
}

func TestGuardarPedido_SinStockRechazado(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 1, "1500.00", "600.00")

	_, err := f.svc.Guardar(context.Background(), f.comensal, dto.GuardarPedidoRequest{
		Lineas: []dto.LineaPedidoRequest{{ProductoID: pizza.ID.String(), Cantidad: 2}},
	})
	require.ErrorIs(t, err, service.ErrValidacion)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "No hay stock suficiente de Pizza. Disponible: 1.", msg)
}

func TestGuardarPedido_ProductoRepetidoRechazado(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")

	_, err := f.svc.Guardar(context.Background(), f.comensal, dto.GuardarPedidoRequest{
		Lineas: []dto.LineaPedidoRequest{
			{ProductoID: pizza.ID.String(), Cantidad: 1},
			{ProductoID: pizza.ID.String(), Cantidad: 2},
		},
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestCerrarPedido_RegistraVentaYDescuentaStock(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.abierto(t, pizza, 2)
	paga := decimal.NewFromInt(5000)

	resp, err := f.svc.Cerrar(context.Background(), f.comensal, id, dto.CerrarPedidoRequest{PagaCon: &paga})
	require.NoError(t, err)

	assert.Equal(t, string(model.EstadoCerrado), resp.Estado)
	require.NotNil(t, resp.VentaID)
	assert.True(t, resp.Vuelto.Equal(decimal.NewFromInt(2000)), "vuelto: %s", resp.Vuelto)
	assert.Equal(t, 8, f.productos.productos[pizza.ID].Stock)

	venta := f.ventas.unica()
	require.NotNil(t, venta)
	assert.Equal(t, model.TipoVentaOnline, venta.Tipo)
	assert.Equal(t, id, *venta.PedidoID)

	movs := f.movimientos.delTipo(model.MovimientoVenta)
	require.Len(t, movs, 1)
	assert.Equal(t, -2, movs[0].Cantidad)
	assert.Equal(t, 10, movs[0].StockAnterior)
	assert.Equal(t, 8, movs[0].StockNuevo)
	assert.NotNil(t, movs[0].VentaLineaID)
}

func TestCerrarPedido_PagoInsuficiente(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.abierto(t, pizza, 2)
	paga := decimal.NewFromInt(100)

	_, err := f.svc.Cerrar(context.Background(), f.comensal, id, dto.CerrarPedidoRequest{PagaCon: &paga})
	require.ErrorIs(t, err, service.ErrValidacion)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "El monto con el que paga es menor al total.", msg)
}

func TestCerrarPedido_SoloElDuenio(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.abierto(t, pizza, 1)

	otro := service.Solicitante{ID: uuid.New(), Roles: []string{model.RolComensal}}
	_, err := f.svc.Cerrar(context.Background(), otro, id, dto.CerrarPedidoRequest{})
	assert.ErrorIs(t, err, service.ErrNoAutorizado)
}

func TestCerrarPedido_YaCerrado(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.cerrado(t, pizza, 1)

	_, err := f.svc.Cerrar(context.Background(), f.comensal, id, dto.CerrarPedidoRequest{})
	assert.ErrorIs(t, err, service.ErrConflicto)
}

func TestEntregarPedido_RequiereCerrado(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.abierto(t, pizza, 1)

	_, err := f.svc.Entregar(context.Background(), f.vendedor, id)
	require.ErrorIs(t, err, service.ErrConflicto)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "No se puede marcar como entregado el pedido debido a que el usuario no lo ha cerrado.", msg)
}

func TestEntregarPedido_DosVeces(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.cerrado(t, pizza, 1)

	resp, err := f.svc.Entregar(context.Background(), f.vendedor, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.EstadoEntregado), resp.Estado)

	_, err = f.svc.Entregar(context.Background(), f.vendedor, id)
	require.ErrorIs(t, err, service.ErrConflicto)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "El pedido ya se encuentra en estado entregado.", msg)
}

func TestEntregarPedido_ComensalNoAutorizado(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.cerrado(t, pizza, 1)

	_, err := f.svc.Entregar(context.Background(), f.comensal, id)
	assert.ErrorIs(t, err, service.ErrNoAutorizado)
}

func TestCancelarPedido_DosVeces(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.abierto(t, pizza, 1)

	resp, err := f.svc.Cancelar(context.Background(), f.comensal, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.EstadoCancelado), resp.Estado)

	_, err = f.svc.Cancelar(context.Background(), f.comensal, id)
	assert.ErrorIs(t, err, service.ErrConflicto)
}

func TestCancelarPedido_CerradoDevuelveStock(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.cerrado(t, pizza, 3)
	require.Equal(t, 7, f.productos.productos[pizza.ID].Stock)

	_, err := f.svc.Cancelar(context.Background(), f.vendedor, id)
	require.NoError(t, err)

	assert.Equal(t, 10, f.productos.productos[pizza.ID].Stock)
	assert.True(t, f.ventas.unica().EstaAnulada())
	require.Len(t, f.movimientos.delTipo(model.MovimientoAnulacionVenta), 1)
}

func TestCancelarPedido_EntregadoRechazado(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.cerrado(t, pizza, 1)
	_, err := f.svc.Entregar(context.Background(), f.vendedor, id)
	require.NoError(t, err)

	_, err = f.svc.Cancelar(context.Background(), f.vendedor, id)
	assert.ErrorIs(t, err, service.ErrConflicto)
}

func TestCancelarPedido_AjenoSinRol(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.abierto(t, pizza, 1)

	otro := service.Solicitante{ID: uuid.New(), Roles: []string{model.RolComensal}}
	_, err := f.svc.Cancelar(context.Background(), otro, id)
	assert.ErrorIs(t, err, service.ErrNoAutorizado)
}

func TestObtenerAbierto(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")

	_, _, err := f.svc.ObtenerAbierto(context.Background(), f.comensal)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)

	f.cerrado(t, pizza, 1)
	resp, cerrado, err := f.svc.ObtenerAbierto(context.Background(), f.comensal)
	require.NoError(t, err)
	assert.True(t, cerrado)
	assert.Nil(t, resp)
}

func TestComanda_SoloCerrado(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.abierto(t, pizza, 1)

	_, _, err := f.svc.Comanda(context.Background(), f.vendedor, id)
	assert.ErrorIs(t, err, service.ErrConflicto)

	_, err = f.svc.Cerrar(context.Background(), f.comensal, id, dto.CerrarPedidoRequest{})
	require.NoError(t, err)
	pdf, nombre, err := f.svc.Comanda(context.Background(), f.vendedor, id)
	require.NoError(t, err)
	assert.Equal(t, "comanda-P00001.pdf", nombre)
	assert.True(t, len(pdf) > 4 && string(pdf[:4]) == "%PDF")
}

func TestAccionesPedido(t *testing.T) {
	f := newPedidoFixture()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	id := f.cerrado(t, pizza, 1)

	comoComensal, err := f.svc.Obtener(context.Background(), f.comensal, id)
	require.NoError(t, err)
	assert.False(t, comoComensal.Acciones["entregar"])
	assert.True(t, comoComensal.Acciones["cancelar"])
	assert.True(t, comoComensal.Acciones["ticket"])

	comoVendedor, err := f.svc.Obtener(context.Background(), f.vendedor, id)
	require.NoError(t, err)
	assert.True(t, comoVendedor.Acciones["entregar"])
	assert.True(t, comoVendedor.Acciones["comanda"])
}
