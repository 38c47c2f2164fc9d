package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReemplazoMercaderia withdraws damaged or returned goods from stock.
type ReemplazoMercaderia struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int64           `gorm:"autoIncrement;uniqueIndex"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha     time.Time       `gorm:"not null;index"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Anulado   *time.Time
	CreatedAt time.Time

	Usuario *Usuario                   `gorm:"foreignKey:UsuarioID"`
	Lineas  []ReemplazoMercaderiaLinea `gorm:"foreignKey:ReemplazoID"`
}

// ReemplazoMercaderiaLinea is one product line of a ReemplazoMercaderia.
// Costo is the product's cost when the document was created.
type ReemplazoMercaderiaLinea struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReemplazoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad    int             `gorm:"not null"`
	Costo       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto    *Producto         `gorm:"foreignKey:ProductoID"`
	Movimientos []MovimientoStock `gorm:"foreignKey:ReemplazoLineaID"`
}

func (ReemplazoMercaderia) TableName() string      { return "reemplazos_mercaderia" }
func (ReemplazoMercaderiaLinea) TableName() string { return "reemplazo_mercaderia_lineas" }

func (r *ReemplazoMercaderia) EstaAnulado() bool { return r.Anulado != nil }

func (r *ReemplazoMercaderia) NumeroTexto() string { return fmt.Sprintf("R%05d", r.Numero) }
