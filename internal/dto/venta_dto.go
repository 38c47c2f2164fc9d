package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"gt=0"`
}

type RegistrarVentaRequest struct {
	Lineas  []LineaVentaRequest `json:"lineas"   validate:"required,min=1,dive"`
	PagaCon decimal.Decimal     `json:"paga_con" validate:"gt=0"`
}

type VentaFilter struct {
	Numero     int64      `form:"numero"      validate:"min=0"`
	FechaDesde *time.Time `form:"fecha_desde" time_format:"2006-01-02"`
	FechaHasta *time.Time `form:"fecha_hasta" time_format:"2006-01-02"`
	Tipo       string     `form:"tipo"        validate:"omitempty,oneof=online local"`
	Estado     string     `form:"estado"      validate:"omitempty,oneof=activa anulada"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaLineaResponse struct {
	ID         string          `json:"id"`
	ProductoID string          `json:"producto_id"`
	Producto   string          `json:"producto"`
	Cantidad   int             `json:"cantidad"`
	Precio     decimal.Decimal `json:"precio"`
	Total      decimal.Decimal `json:"total"`
}

type VentaResponse struct {
	ID       string               `json:"id"`
	Numero   string               `json:"numero"`
	Fecha    time.Time            `json:"fecha"`
	Tipo     string               `json:"tipo"`
	Total    decimal.Decimal      `json:"total"`
	PagaCon  *decimal.Decimal     `json:"paga_con"`
	Vuelto   decimal.Decimal      `json:"vuelto"`
	Anulada  *time.Time           `json:"anulada"`
	PedidoID *string              `json:"pedido_id"`
	Usuario  *UsuarioResumen      `json:"usuario,omitempty"`
	Lineas   []VentaLineaResponse `json:"lineas"`
	Acciones Acciones             `json:"acciones"`
}
