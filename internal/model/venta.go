package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TipoVentaOnline = "online"
	TipoVentaLocal  = "local"
)

// Venta is a finalized sale. Anulada is one-way.
type Venta struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int64            `gorm:"autoIncrement;uniqueIndex"`
	UsuarioID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Tipo      string           `gorm:"type:varchar(20);not null"`
	Total     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PagaCon   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Vuelto    decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Anulada   *time.Time
	PedidoID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time

	Usuario *Usuario     `gorm:"foreignKey:UsuarioID"`
	Lineas  []VentaLinea `gorm:"foreignKey:VentaID"`
}

// VentaLinea is one product line of a Venta.
type VentaLinea struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   int             `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Venta) TableName() string      { return "ventas" }
func (VentaLinea) TableName() string { return "venta_lineas" }

func (v *Venta) EstaAnulada() bool { return v.Anulada != nil }

func (v *Venta) NumeroTexto() string { return fmt.Sprintf("V%05d", v.Numero) }
