package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingreso is a stock ingress (purchase) document.
type Ingreso struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int64           `gorm:"autoIncrement;uniqueIndex"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha     time.Time       `gorm:"not null;index"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Anulado   *time.Time
	CreatedAt time.Time

	Usuario *Usuario       `gorm:"foreignKey:UsuarioID"`
	Lineas  []IngresoLinea `gorm:"foreignKey:IngresoID"`
}

// IngresoLinea is one product line of an Ingreso.
type IngresoLinea struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngresoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   int             `gorm:"not null"`
	Costo      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto    *Producto         `gorm:"foreignKey:ProductoID"`
	Movimientos []MovimientoStock `gorm:"foreignKey:IngresoLineaID"`
}

func (Ingreso) TableName() string      { return "ingresos" }
func (IngresoLinea) TableName() string { return "ingreso_lineas" }

// EstaAnulado reports whether the document was annulled.
func (i *Ingreso) EstaAnulado() bool { return i.Anulado != nil }

// NumeroTexto renders the human-facing document number.
func (i *Ingreso) NumeroTexto() string { return fmt.Sprintf("I%05d", i.Numero) }
