package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaIngresoRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"gt=0"`
	Costo      decimal.Decimal `json:"costo"       validate:"gte=0"`
}

type CrearIngresoRequest struct {
	Lineas []LineaIngresoRequest `json:"lineas" validate:"required,min=1,dive"`
}

type LineaReemplazoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"gt=0"`
}

type CrearReemplazoRequest struct {
	Lineas []LineaReemplazoRequest `json:"lineas" validate:"required,min=1,dive"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

// DocumentoStockFilter filters ingresos and reemplazos.
type DocumentoStockFilter struct {
	Numero     int64      `form:"numero"      validate:"min=0"`
	FechaDesde *time.Time `form:"fecha_desde" time_format:"2006-01-02"`
	FechaHasta *time.Time `form:"fecha_hasta" time_format:"2006-01-02"`
	Usuario    string     `form:"usuario"`
	Estado     string     `form:"estado"      validate:"omitempty,oneof=activo anulado"`
	Paginacion
}

type MovimientoFilter struct {
	Producto   string     `form:"producto"    validate:"omitempty,uuid"`
	Ingreso    string     `form:"ingreso"     validate:"omitempty,uuid"`
	Usuario    string     `form:"usuario"`
	FechaDesde *time.Time `form:"fecha_desde" time_format:"2006-01-02"`
	FechaHasta *time.Time `form:"fecha_hasta" time_format:"2006-01-02"`
	Estado     string     `form:"estado"      validate:"omitempty,oneof=activo anulado"`
	Tipo       string     `form:"tipo"        validate:"omitempty,oneof=ingreso reemplazo venta anulacion_venta ajuste"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaStockResponse struct {
	ID         string          `json:"id"`
	ProductoID string          `json:"producto_id"`
	Producto   string          `json:"producto"`
	Cantidad   int             `json:"cantidad"`
	Costo      decimal.Decimal `json:"costo"`
	Total      decimal.Decimal `json:"total"`
}

// DocumentoStockResponse renders both ingresos and reemplazos.
type DocumentoStockResponse struct {
	ID       string               `json:"id"`
	Numero   string               `json:"numero"`
	Fecha    time.Time            `json:"fecha"`
	Usuario  *UsuarioResumen      `json:"usuario,omitempty"`
	Total    decimal.Decimal      `json:"total"`
	Anulado  *time.Time           `json:"anulado"`
	Lineas   []LineaStockResponse `json:"lineas"`
	Acciones Acciones             `json:"acciones"`
}

type MovimientoResponse struct {
	ID               string          `json:"id"`
	ProductoID       string          `json:"producto_id"`
	Producto         string          `json:"producto"`
	Tipo             string          `json:"tipo"`
	Cantidad         int             `json:"cantidad"`
	StockAnterior    int             `json:"stock_anterior"`
	StockNuevo       int             `json:"stock_nuevo"`
	Descripcion      string          `json:"descripcion"`
	Usuario          *UsuarioResumen `json:"usuario,omitempty"`
	IngresoLineaID   *string         `json:"ingreso_linea_id,omitempty"`
	ReemplazoLineaID *string         `json:"reemplazo_linea_id,omitempty"`
	VentaLineaID     *string         `json:"venta_linea_id,omitempty"`
	Anulado          *time.Time      `json:"anulado"`
	Fecha            time.Time       `json:"fecha"`
}
