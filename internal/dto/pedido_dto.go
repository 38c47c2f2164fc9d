package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"gt=0"`
}

// GuardarPedidoRequest replaces the lines of the caller's open pedido. An
// empty list deletes it.
type GuardarPedidoRequest struct {
	Lineas []LineaPedidoRequest `json:"lineas" validate:"dive"`
}

type CerrarPedidoRequest struct {
	PagaCon   *decimal.Decimal `json:"paga_con"  validate:"omitempty,gt=0"`
	Delivery  bool             `json:"delivery"`
	Direccion string           `json:"direccion" validate:"required_if=Delivery true,max=100"`
}

type PedidoFilter struct {
	FechaDesde *time.Time `form:"fecha_desde" time_format:"2006-01-02"`
	FechaHasta *time.Time `form:"fecha_hasta" time_format:"2006-01-02"`
	Usuario    string     `form:"usuario"`
	Numero     int64      `form:"numero"      validate:"min=0"`
	Estado     string     `form:"estado"      validate:"omitempty,oneof=ABIERTO CERRADO ENTREGADO CANCELADO"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoLineaResponse struct {
	ID         string          `json:"id"`
	ProductoID string          `json:"producto_id"`
	Producto   string          `json:"producto"`
	Cantidad   int             `json:"cantidad"`
	Precio     decimal.Decimal `json:"precio"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type PedidoEstadoResponse struct {
	Estado  string    `json:"estado"`
	Legible string    `json:"legible"`
	Fecha   time.Time `json:"fecha"`
}

type PedidoResponse struct {
	ID            string                 `json:"id"`
	Numero        string                 `json:"numero"`
	Fecha         time.Time              `json:"fecha"`
	Estado        string                 `json:"estado"`
	EstadoLegible string                 `json:"estado_legible"`
	Total         decimal.Decimal        `json:"total"`
	Delivery      bool                   `json:"delivery"`
	Direccion     string                 `json:"direccion"`
	PagaCon       *decimal.Decimal       `json:"paga_con"`
	Vuelto        decimal.Decimal        `json:"vuelto"`
	VentaID       *string                `json:"venta_id"`
	Usuario       *UsuarioResumen        `json:"usuario,omitempty"`
	Lineas        []PedidoLineaResponse  `json:"lineas"`
	Estados       []PedidoEstadoResponse `json:"estados,omitempty"`
	Acciones      Acciones               `json:"acciones"`
}
