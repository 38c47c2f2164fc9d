package repository

import (
	"context"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Catalogo(ctx context.Context, filter dto.CatalogoFilter) ([]model.Producto, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// ContarEnPedidosPendientes counts ABIERTO or CERRADO pedidos with a line
	// for the product.
	ContarEnPedidosPendientes(ctx context.Context, id uuid.UUID) (int64, error)

	// Used inside transactions; callers pass the tx instance.
	CreateTx(tx *gorm.DB, p *model.Producto) error
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	// FindByIDTx locks the row until the transaction ends. Deleted products
	// are returned too so that stock can be restored on them.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").First(&p, "id = ? AND borrado = false", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where("borrado = false")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria_id = ?", filter.Categoria)
	}
	switch filter.Tipo {
	case "compra":
		q = q.Where("compra_directa = true")
	case "venta":
		q = q.Where("venta_directa = true")
	}
	switch filter.AlertaStock {
	case "con":
		q = q.Where("stock < stock_seguridad")
	case "sin":
		q = q.Where("stock >= stock_seguridad")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginar(q.Preload("Categoria").Order("nombre ASC"), filter.Offset(), filter.RegistrosPorPagina).
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Catalogo(ctx context.Context, filter dto.CatalogoFilter) ([]model.Producto, error) {
	q := r.db.WithContext(ctx).Where("borrado = false AND venta_directa = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria_id = ?", filter.Categoria)
	}
	var productos []model.Producto
	err := q.Preload("Categoria").Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("borrado", true).Error
}

func (r *productoRepo) ContarEnPedidosPendientes(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PedidoLinea{}).
		Joins("JOIN pedidos ON pedidos.id = pedido_lineas.pedido_id").
		Where("pedido_lineas.producto_id = ? AND pedidos.estado IN ?", id,
			[]model.EstadoPedido{model.EstadoAbierto, model.EstadoCerrado}).
		Count(&n).Error
	return n, err
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	// stock is only written through UpdateStockTx
	return tx.Model(p).
		Select("nombre", "descripcion", "categoria_id", "precio_vigente", "costo_vigente",
			"stock_seguridad", "compra_directa", "venta_directa", "updated_at").
		Updates(p).Error
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productoRepo) UpdateCostoTx(tx *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("costo_vigente", costo).Error
}
