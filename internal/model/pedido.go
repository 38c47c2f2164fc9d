package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstadoPedido is the closed set of order states.
type EstadoPedido string

const (
	EstadoAbierto   EstadoPedido = "ABIERTO"
	EstadoCerrado   EstadoPedido = "CERRADO"
	EstadoEntregado EstadoPedido = "ENTREGADO"
	EstadoCancelado EstadoPedido = "CANCELADO"
)

var transicionesPedido = map[EstadoPedido][]EstadoPedido{
	EstadoAbierto: {EstadoCerrado, EstadoCancelado},
	EstadoCerrado: {EstadoEntregado, EstadoCancelado},
}

// ParseEstadoPedido accepts the state name case-sensitively. "RECIBIDO" is an
// alias of ENTREGADO.
func ParseEstadoPedido(s string) (EstadoPedido, bool) {
	e := EstadoPedido(s)
	if s == "RECIBIDO" {
		e = EstadoEntregado
	}
	return e, e.Valido()
}

// Valido reports whether e is a known state.
func (e EstadoPedido) Valido() bool {
	switch e {
	case EstadoAbierto, EstadoCerrado, EstadoEntregado, EstadoCancelado:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves e.
func (e EstadoPedido) Terminal() bool { return len(transicionesPedido[e]) == 0 }

// PuedeTransicionarA reports whether the machine allows e → destino.
func (e EstadoPedido) PuedeTransicionarA(destino EstadoPedido) bool {
	for _, d := range transicionesPedido[e] {
		if d == destino {
			return true
		}
	}
	return false
}

// Legible returns the display label of the state.
func (e EstadoPedido) Legible() string {
	switch e {
	case EstadoAbierto:
		return "Abierto"
	case EstadoCerrado:
		return "En preparación"
	case EstadoEntregado:
		return "Entregado"
	case EstadoCancelado:
		return "Cancelado"
	}
	return string(e)
}

const TipoPedidoOnline = "online"

// Pedido is a cart-like order owned by a user.
type Pedido struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int64            `gorm:"autoIncrement;uniqueIndex"`
	UsuarioID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Fecha     time.Time        `gorm:"not null;index"`
	Tipo      string           `gorm:"type:varchar(20);not null;default:'online'"`
	Estado    EstadoPedido     `gorm:"type:varchar(20);not null;index"`
	Total     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Delivery  bool             `gorm:"not null;default:false"`
	Direccion string           `gorm:"type:varchar(100)"`
	PagaCon   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Vuelto    decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	VentaID   *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Usuario *Usuario       `gorm:"foreignKey:UsuarioID"`
	Lineas  []PedidoLinea  `gorm:"foreignKey:PedidoID"`
	Estados []PedidoEstado `gorm:"foreignKey:PedidoID"`
	Venta   *Venta         `gorm:"foreignKey:VentaID"`
}

// PedidoLinea is one product line of a Pedido. Subtotal = Precio × Cantidad.
type PedidoLinea struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   int             `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// PedidoEstado is the append-only history of states reached by a Pedido.
type PedidoEstado struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	Estado    EstadoPedido `gorm:"type:varchar(20);not null"`
	UsuarioID *uuid.UUID   `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (Pedido) TableName() string       { return "pedidos" }
func (PedidoLinea) TableName() string  { return "pedido_lineas" }
func (PedidoEstado) TableName() string { return "pedido_estados" }

// BeforeSave rejects unknown states.
func (p *Pedido) BeforeSave(_ *gorm.DB) error {
	if !p.Estado.Valido() {
		return fmt.Errorf("estado de pedido inválido: %q", p.Estado)
	}
	return nil
}

// BeforeSave rejects unknown states.
func (e *PedidoEstado) BeforeSave(_ *gorm.DB) error {
	if !e.Estado.Valido() {
		return fmt.Errorf("estado de pedido inválido: %q", e.Estado)
	}
	return nil
}

// Transicionar moves the order to destino when the machine allows it and
// returns the history row to persist.
func (p *Pedido) Transicionar(destino EstadoPedido, usuarioID *uuid.UUID) (*PedidoEstado, error) {
	if !p.Estado.PuedeTransicionarA(destino) {
		return nil, fmt.Errorf("transición inválida de %s a %s", p.Estado, destino)
	}
	p.Estado = destino
	return &PedidoEstado{PedidoID: p.ID, Estado: destino, UsuarioID: usuarioID}, nil
}

// RecalcularTotal sets each line subtotal and the order total.
func (p *Pedido) RecalcularTotal() {
	total := decimal.Zero
	for i := range p.Lineas {
		l := &p.Lineas[i]
		l.Subtotal = l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
		total = total.Add(l.Subtotal)
	}
	p.Total = total
}

// CantidadProducto returns the quantity ordered of a product, zero if absent.
func (p *Pedido) CantidadProducto(productoID uuid.UUID) int {
	for _, l := range p.Lineas {
		if l.ProductoID == productoID {
			return l.Cantidad
		}
	}
	return 0
}

func (p *Pedido) NumeroTexto() string { return fmt.Sprintf("P%05d", p.Numero) }
