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

// buildVentaSvc shares its repositories with a PedidoService so tests can
// move a pedido to CERRADO and then annul its venta.
func buildVentaSvc() (service.VentaService, *pedidoFixture) {
	f := newPedidoFixture()
	svc := service.NewVentaService(f.ventas, f.pedidos, f.productos, f.movimientos, nil, "Resto")
	return svc, f
}

func TestRegistrarVentaLocal_VueltoYStock(t *testing.T) {
	svc, f := buildVentaSvc()
	cafe := f.productos.agregar("Café", 20, "800.00", "200.00")
	medialuna := f.productos.agregar("Medialuna", 30, "350.00", "90.00")

	resp, err := svc.RegistrarLocal(context.Background(), f.vendedor, dto.RegistrarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{ProductoID: cafe.ID.String(), Cantidad: 2},
			{ProductoID: medialuna.ID.String(), Cantidad: 3},
		},
		PagaCon: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	// 2×800 + 3×350 = 2650
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(2650)), "total: %s", resp.Total)
	assert.True(t, resp.Vuelto.Equal(decimal.NewFromInt(2350)), "vuelto: %s", resp.Vuelto)
	assert.Equal(t, model.TipoVentaLocal, resp.Tipo)
	assert.Equal(t, "V00001", resp.Numero)
	assert.Equal(t, 18, f.productos.productos[cafe.ID].Stock)
	assert.Equal(t, 27, f.productos.productos[medialuna.ID].Stock)
	assert.Len(t, f.movimientos.delTipo(model.MovimientoVenta), 2)
}

func TestRegistrarVentaLocal_UsaPrecioVigente(t *testing.T) {
	svc, f := buildVentaSvc()
	cafe := f.productos.agregar("Café", 20, "800.00", "200.00")
	f.productos.productos[cafe.ID].PrecioVigente = decimal.NewFromInt(900)

	resp, err := svc.RegistrarLocal(context.Background(), f.vendedor, dto.RegistrarVentaRequest{
		Lineas:  []dto.LineaVentaRequest{{ProductoID: cafe.ID.String(), Cantidad: 1}},
		PagaCon: decimal.NewFromInt(900),
	})
	require.NoError(t, err)
	assert.True(t, resp.Lineas[0].Precio.Equal(decimal.NewFromInt(900)))
	assert.True(t, resp.Vuelto.IsZero())
}

func TestRegistrarVentaLocal_PagoInsuficiente(t *testing.T) {
	svc, f := buildVentaSvc()
	cafe := f.productos.agregar("Café", 20, "800.00", "200.00")

	_, err := svc.RegistrarLocal(context.Background(), f.vendedor, dto.RegistrarVentaRequest{
		Lineas:  []dto.LineaVentaRequest{{ProductoID: cafe.ID.String(), Cantidad: 2}},
		PagaCon: decimal.NewFromInt(1000),
	})
	require.ErrorIs(t, err, service.ErrValidacion)
	assert.Equal(t, 20, f.productos.productos[cafe.ID].Stock)
}

func TestRegistrarVentaLocal_SinStock(t *testing.T) {
	svc, f := buildVentaSvc()
	cafe := f.productos.agregar("Café", 1, "800.00", "200.00")

	_, err := svc.RegistrarLocal(context.Background(), f.vendedor, dto.RegistrarVentaRequest{
		Lineas:  []dto.LineaVentaRequest{{ProductoID: cafe.ID.String(), Cantidad: 2}},
		PagaCon: decimal.NewFromInt(5000),
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestRegistrarVentaLocal_ProductoNoVendible(t *testing.T) {
	svc, f := buildVentaSvc()
	insumo := f.productos.agregar("Levadura", 10, "100.00", "50.00")
	f.productos.productos[insumo.ID].VentaDirecta = false

	_, err := svc.RegistrarLocal(context.Background(), f.vendedor, dto.RegistrarVentaRequest{
		Lineas:  []dto.LineaVentaRequest{{ProductoID: insumo.ID.String(), Cantidad: 1}},
		PagaCon: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, service.ErrValidacion)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "El producto Levadura no está a la venta.", msg)
}

func TestAnularVenta_RestauraStock(t *testing.T) {
	svc, f := buildVentaSvc()
	cafe := f.productos.agregar("Café", 20, "800.00", "200.00")
	resp, err := svc.RegistrarLocal(context.Background(), f.vendedor, dto.RegistrarVentaRequest{
		Lineas:  []dto.LineaVentaRequest{{ProductoID: cafe.ID.String(), Cantidad: 5}},
		PagaCon: decimal.NewFromInt(4000),
	})
	require.NoError(t, err)
	require.Equal(t, 15, f.productos.productos[cafe.ID].Stock)
	id := uuid.MustParse(resp.ID)

	anulada, err := svc.Anular(context.Background(), f.vendedor, id)
	require.NoError(t, err)
	assert.NotNil(t, anulada.Anulada)
	assert.Equal(t, 20, f.productos.productos[cafe.ID].Stock)
	movs := f.movimientos.delTipo(model.MovimientoAnulacionVenta)
	require.Len(t, movs, 1)
	assert.Equal(t, 5, movs[0].Cantidad)

	_, err = svc.Anular(context.Background(), f.vendedor, id)
	require.ErrorIs(t, err, service.ErrConflicto)
	msg, _ := service.MensajeDe(err)
	assert.Equal(t, "La venta ya se encuentra anulada.", msg)
}

func TestAnularVenta_CancelaPedidoEnPreparacion(t *testing.T) {
	svc, f := buildVentaSvc()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	pedidoID := f.cerrado(t, pizza, 2)
	venta := f.ventas.unica()
	require.NotNil(t, venta)

	_, err := svc.Anular(context.Background(), f.vendedor, venta.ID)
	require.NoError(t, err)

	assert.Equal(t, model.EstadoCancelado, f.pedidos.pedidos[pedidoID].Estado)
	assert.Equal(t, 10, f.productos.productos[pizza.ID].Stock)
}

func TestAnularVenta_ComensalNoAutorizado(t *testing.T) {
	svc, f := buildVentaSvc()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	f.cerrado(t, pizza, 1)

	_, err := svc.Anular(context.Background(), f.comensal, f.ventas.unica().ID)
	assert.ErrorIs(t, err, service.ErrNoAutorizado)
}

func TestObtenerVenta_DuenioOElevado(t *testing.T) {
	svc, f := buildVentaSvc()
	pizza := f.productos.agregar("Pizza", 10, "1500.00", "600.00")
	f.cerrado(t, pizza, 1)
	id := f.ventas.unica().ID

	_, err := svc.Obtener(context.Background(), f.comensal, id)
	assert.NoError(t, err)
	_, err = svc.Obtener(context.Background(), f.vendedor, id)
	assert.NoError(t, err)

	otro := service.Solicitante{ID: uuid.New(), Roles: []string{model.RolComensal}}
	_, err = svc.Obtener(context.Background(), otro, id)
	assert.ErrorIs(t, err, service.ErrNoAutorizado)
}

func TestTicketVenta(t *testing.T) {
	svc, f := buildVentaSvc()
	cafe := f.productos.agregar("Café", 20, "800.00", "200.00")
	resp, err := svc.RegistrarLocal(context.Background(), f.vendedor, dto.RegistrarVentaRequest{
		Lineas:  []dto.LineaVentaRequest{{ProductoID: cafe.ID.String(), Cantidad: 1}},
		PagaCon: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	pdf, nombre, err := svc.Ticket(context.Background(), f.vendedor, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "ticket-V00001.pdf", nombre)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
