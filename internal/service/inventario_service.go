package service

import (
	"fmt"

	"github.com/martingh15/proyecto-backend/internal/metrics"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// inventario applies stock changes. Every change to producto.stock goes
// through movimiento so the ledger and the counter never diverge.
type inventario struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

// movimiento describes one stock change to apply inside a transaction.
type movimiento struct {
	productoID  uuid.UUID
	tipo        model.TipoMovimiento
	delta       int
	descripcion string
	usuarioID   *uuid.UUID
	// vincular sets the document line the movement belongs to.
	vincular func(m *model.MovimientoStock)
}

// aplicarTx locks the product, rejects a negative result, moves the counter
// and writes the movement row. It returns the product as it was before.
func (inv *inventario) aplicarTx(tx *gorm.DB, mov movimiento) (*model.Producto, *model.MovimientoStock, error) {
	p, err := inv.productos.FindByIDTx(tx, mov.productoID)
	if err != nil {
		return nil, nil, siNoExiste(err, "El producto seleccionado no existe.")
	}
	if p.Stock+mov.delta < 0 {
		return nil, nil, validacion(fmt.Sprintf("No hay stock suficiente de %s. Disponible: %d.", p.Nombre, p.Stock))
	}

	m := model.NuevoMovimiento(p.ID, mov.tipo, mov.delta, p.Stock, mov.descripcion)
	m.ID = uuid.New()
	m.UsuarioID = mov.usuarioID
	if mov.vincular != nil {
		mov.vincular(m)
	}
	if err := inv.productos.UpdateStockTx(tx, p.ID, mov.delta); err != nil {
		return nil, nil, err
	}
	if err := inv.movimientos.CreateTx(tx, m); err != nil {
		return nil, nil, err
	}
	return p, m, nil
}

// productoVendible loads a product for a new document line. Deleted products
// are rejected.
func (inv *inventario) productoVendible(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, err := inv.productos.FindByIDTx(tx, id)
	if err != nil {
		return nil, siNoExiste(err, "El producto seleccionado no existe.")
	}
	if p.Borrado {
		return nil, validacion(fmt.Sprintf("El producto %s no está disponible.", p.Nombre))
	}
	return p, nil
}

// contarMovimientos records committed movements in Prometheus.
func contarMovimientos(movs []*model.MovimientoStock) {
	for _, m := range movs {
		metrics.MovimientosStock.WithLabelValues(string(m.Tipo)).Inc()
	}
}

// parseIDs converts line product ids and rejects repeated products.
func parseIDs(ids []string) ([]uuid.UUID, error) {
	vistos := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, validacion("El producto seleccionado no existe.")
		}
		if _, ok := vistos[id]; ok {
			return nil, validacion("No puede repetir un producto en el mismo documento.")
		}
		vistos[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
