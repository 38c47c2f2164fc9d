package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Motivos de cambio de precio.
const (
	MotivoPrecioAlta    = "alta"
	MotivoPrecioEdicion = "edicion"
	MotivoPrecioIngreso = "ingreso"
)

// HistorialPrecio registra cada cambio de precio o costo de un producto.
// Los registros son inmutables.
type HistorialPrecio struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     *uuid.UUID      `gorm:"type:uuid"`
	CostoAntes    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoDespues  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioAntes   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioDespues decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Motivo        string          `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName keeps the Spanish plural.
func (HistorialPrecio) TableName() string { return "historial_precios" }
