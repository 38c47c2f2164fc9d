package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item. Stock only changes through MovimientoStock rows
// so that Stock always equals the signed sum of its movements.
type Producto struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string          `gorm:"type:varchar(100);index;not null"`
	Descripcion    string          `gorm:"type:varchar(500)"`
	CategoriaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PrecioVigente  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoVigente   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock          int             `gorm:"not null;default:0"`
	StockSeguridad int             `gorm:"not null;default:0"`
	CompraDirecta  bool            `gorm:"not null;default:false"`
	VentaDirecta   bool            `gorm:"not null"`
	Borrado        bool            `gorm:"not null;default:false;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

// Alertar is true when stock fell below the safety threshold.
func (p *Producto) Alertar() bool { return p.Stock < p.StockSeguridad }

// Margen returns the markup over cost as a percentage, zero when cost is zero.
func (p *Producto) Margen() decimal.Decimal {
	if p.CostoVigente.IsZero() {
		return decimal.Zero
	}
	return p.PrecioVigente.Sub(p.CostoVigente).Div(p.CostoVigente).Mul(decimal.NewFromInt(100)).Round(2)
}
