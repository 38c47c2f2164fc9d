package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoMovimiento is the closed set of stock movement origins.
type TipoMovimiento string

const (
	MovimientoIngreso        TipoMovimiento = "ingreso"
	MovimientoReemplazo      TipoMovimiento = "reemplazo"
	MovimientoVenta          TipoMovimiento = "venta"
	MovimientoAnulacionVenta TipoMovimiento = "anulacion_venta"
	MovimientoAjuste         TipoMovimiento = "ajuste"
)

// Valido reports whether t is one of the known movement types.
func (t TipoMovimiento) Valido() bool {
	switch t {
	case MovimientoIngreso, MovimientoReemplazo, MovimientoVenta, MovimientoAnulacionVenta, MovimientoAjuste:
		return true
	}
	return false
}

// MovimientoStock registra cada cambio de stock en un producto.
// Cantidad es positiva para entradas y negativa para salidas. Anulado refleja
// la anulación del documento de origen y no revierte el stock.
type MovimientoStock struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Tipo             TipoMovimiento `gorm:"type:varchar(20);not null;index"`
	Cantidad         int            `gorm:"not null"`
	StockAnterior    int            `gorm:"not null"`
	StockNuevo       int            `gorm:"not null"`
	Descripcion      string         `gorm:"type:varchar(250)"`
	UsuarioID        *uuid.UUID     `gorm:"type:uuid;index"`
	IngresoLineaID   *uuid.UUID     `gorm:"type:uuid;index"`
	ReemplazoLineaID *uuid.UUID     `gorm:"type:uuid;index"`
	VentaLineaID     *uuid.UUID     `gorm:"type:uuid;index"`
	Anulado          *time.Time
	CreatedAt        time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

// BeforeSave rejects unknown movement types.
func (m *MovimientoStock) BeforeSave(_ *gorm.DB) error {
	if !m.Tipo.Valido() {
		return fmt.Errorf("tipo de movimiento inválido: %q", m.Tipo)
	}
	return nil
}

// NuevoMovimiento builds a movement for a product whose stock is stockAnterior
// before applying delta.
func NuevoMovimiento(productoID uuid.UUID, tipo TipoMovimiento, delta, stockAnterior int, descripcion string) *MovimientoStock {
	return &MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: stockAnterior,
		StockNuevo:    stockAnterior + delta,
		Descripcion:   descripcion,
	}
}
