package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=2,max=100"`
	Descripcion    string          `json:"descripcion"     validate:"omitempty,max=500"`
	CategoriaID    string          `json:"categoria_id"    validate:"required,uuid"`
	PrecioVigente  decimal.Decimal `json:"precio_vigente"  validate:"gte=0"`
	CostoVigente   decimal.Decimal `json:"costo_vigente"   validate:"gte=0"`
	Stock          int             `json:"stock"           validate:"min=0"`
	StockSeguridad int             `json:"stock_seguridad" validate:"min=0"`
	CompraDirecta  bool            `json:"compra_directa"`
	VentaDirecta   *bool           `json:"venta_directa"`
}

type ActualizarProductoRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,min=2,max=100"`
	Descripcion    *string          `json:"descripcion"     validate:"omitempty,max=500"`
	CategoriaID    *string          `json:"categoria_id"    validate:"omitempty,uuid"`
	PrecioVigente  *decimal.Decimal `json:"precio_vigente"`
	CostoVigente   *decimal.Decimal `json:"costo_vigente"`
	Stock          *int             `json:"stock"           validate:"omitempty,min=0"`
	StockSeguridad *int             `json:"stock_seguridad" validate:"omitempty,min=0"`
	CompraDirecta  *bool            `json:"compra_directa"`
	VentaDirecta   *bool            `json:"venta_directa"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	Categoria   string `form:"categoria"    validate:"omitempty,uuid"`
	Tipo        string `form:"tipo"         validate:"omitempty,oneof=compra venta"`
	AlertaStock string `form:"alerta_stock" validate:"omitempty,oneof=con sin"`
	Abierto     bool   `form:"abierto"`
	Paginacion
}

// CatalogoFilter filters the public catalog.
type CatalogoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string             `json:"id"`
	Nombre         string             `json:"nombre"`
	Descripcion    string             `json:"descripcion"`
	CategoriaID    string             `json:"categoria_id"`
	Categoria      *CategoriaResponse `json:"categoria,omitempty"`
	PrecioVigente  decimal.Decimal    `json:"precio_vigente"`
	CostoVigente   decimal.Decimal    `json:"costo_vigente"`
	Margen         decimal.Decimal    `json:"margen"`
	Stock          int                `json:"stock"`
	StockSeguridad int                `json:"stock_seguridad"`
	Alertar        bool               `json:"alertar"`
	CompraDirecta  bool               `json:"compra_directa"`
	VentaDirecta   bool               `json:"venta_directa"`
	CantidadPedida *int               `json:"cantidad_pedida,omitempty"`
}

// ProductoPublicoResponse is the catalog view; cost and margin are omitted.
type ProductoPublicoResponse struct {
	ID            string             `json:"id"`
	Nombre        string             `json:"nombre"`
	Descripcion   string             `json:"descripcion"`
	CategoriaID   string             `json:"categoria_id"`
	Categoria     *CategoriaResponse `json:"categoria,omitempty"`
	PrecioVigente decimal.Decimal    `json:"precio_vigente"`
	Stock         int                `json:"stock"`
}

type HistorialPrecioResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	UsuarioID     *string         `json:"usuario_id"`
	CostoAntes    decimal.Decimal `json:"costo_antes"`
	CostoDespues  decimal.Decimal `json:"costo_despues"`
	PrecioAntes   decimal.Decimal `json:"precio_antes"`
	PrecioDespues decimal.Decimal `json:"precio_despues"`
	Motivo        string          `json:"motivo"`
	Fecha         time.Time       `json:"fecha"`
}
