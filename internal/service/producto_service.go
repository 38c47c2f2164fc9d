package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Catalogo(ctx context.Context, filter dto.CatalogoFilter) ([]dto.ProductoPublicoResponse, error)
	ObtenerPublico(ctx context.Context, id uuid.UUID) (*dto.ProductoPublicoResponse, error)
	Listar(ctx context.Context, sol Solicitante, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Crear(ctx context.Context, sol Solicitante, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, sol Solicitante, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Borrar(ctx context.Context, id uuid.UUID) error
	HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.HistorialPrecioResponse, int64, error)
}

type productoService struct {
	repo       repository.ProductoRepository
	categorias repository.CategoriaRepository
	historial  repository.HistorialPrecioRepository
	pedidos    repository.PedidoRepository
	inv        *inventario
	cache      *infra.Cache
}

func NewProductoService(
	repo repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	historial repository.HistorialPrecioRepository,
	movimientos repository.MovimientoStockRepository,
	pedidos repository.PedidoRepository,
	cache *infra.Cache,
) ProductoService {
	return &productoService{
		repo:       repo,
		categorias: categorias,
		historial:  historial,
		pedidos:    pedidos,
		inv:        &inventario{productos: repo, movimientos: movimientos},
		cache:      cache,
	}
}

const msgProductoInexistente = "El producto no existe."

func claveCatalogo(f dto.CatalogoFilter) string {
	return infra.CacheCatalogo + ":" + strings.ToLower(strings.TrimSpace(f.Nombre)) + ":" + f.Categoria
}

// Catalogo lists what comensales can order. Results are cached per filter.
func (s *productoService) Catalogo(ctx context.Context, filter dto.CatalogoFilter) ([]dto.ProductoPublicoResponse, error) {
	var result []dto.ProductoPublicoResponse
	err := s.cache.GetOrLoadJSON(ctx, claveCatalogo(filter), &result, func(ctx context.Context) (any, error) {
		list, err := s.repo.Catalogo(ctx, filter)
		if err != nil {
			return nil, err
		}
		out := make([]dto.ProductoPublicoResponse, 0, len(list))
		for i := range list {
			out = append(out, productoToPublico(&list[i]))
		}
		return out, nil
	})
	return result, err
}

func (s *productoService) ObtenerPublico(ctx context.Context, id uuid.UUID) (*dto.ProductoPublicoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgProductoInexistente)
	}
	if !p.VentaDirecta {
		return nil, noEncontrado(msgProductoInexistente)
	}
	resp := productoToPublico(p)
	return &resp, nil
}

// Listar is the administrative listing. With Abierto set each product carries
// the quantity the caller already has in the open pedido.
func (s *productoService) Listar(ctx context.Context, sol Solicitante, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error) {
	filter.Normalizar()
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var abierto *model.Pedido
	if filter.Abierto && s.pedidos != nil {
		abierto, err = s.pedidos.FindAbierto(ctx, sol.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}
	}

	out := make([]dto.ProductoResponse, 0, len(list))
	for i := range list {
		resp := productoToResponse(&list[i])
		if filter.Abierto {
			cantidad := 0
			if abierto != nil {
				cantidad = abierto.CantidadProducto(list[i].ID)
			}
			resp.CantidadPedida = &cantidad
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgProductoInexistente)
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Crear(ctx context.Context, sol Solicitante, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, err := s.validarCategoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}
	ventaDirecta := true
	if req.VentaDirecta != nil {
		ventaDirecta = *req.VentaDirecta
	}
	if err := validarMargen(ventaDirecta, req.CostoVigente, req.PrecioVigente); err != nil {
		return nil, err
	}

	p := &model.Producto{
		ID:             uuid.New(),
		Nombre:         strings.TrimSpace(req.Nombre),
		Descripcion:    req.Descripcion,
		CategoriaID:    categoriaID,
		PrecioVigente:  req.PrecioVigente,
		CostoVigente:   req.CostoVigente,
		StockSeguridad: req.StockSeguridad,
		CompraDirecta:  req.CompraDirecta,
		VentaDirecta:   ventaDirecta,
	}
	usuarioID := sol.ID

	var movs []*model.MovimientoStock
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		if err := s.historial.CreateTx(tx, &model.HistorialPrecio{
			ID:            uuid.New(),
			ProductoID:    p.ID,
			UsuarioID:     &usuarioID,
			CostoDespues:  p.CostoVigente,
			PrecioDespues: p.PrecioVigente,
			Motivo:        model.MotivoPrecioAlta,
		}); err != nil {
			return err
		}
		if req.Stock > 0 {
			_, m, err := s.inv.aplicarTx(tx, movimiento{
				productoID:  p.ID,
				tipo:        model.MovimientoAjuste,
				delta:       req.Stock,
				descripcion: "Creación de producto",
				usuarioID:   &usuarioID,
			})
			if err != nil {
				return err
			}
			movs = append(movs, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	contarMovimientos(movs)
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)

	p.Stock = req.Stock
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, sol Solicitante, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	var categoriaID *uuid.UUID
	if req.CategoriaID != nil {
		cid, err := s.validarCategoria(ctx, *req.CategoriaID)
		if err != nil {
			return nil, err
		}
		categoriaID = &cid
	}
	usuarioID := sol.ID

	var actualizado *model.Producto
	var movs []*model.MovimientoStock
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return siNoExiste(err, msgProductoInexistente)
		}
		if p.Borrado {
			return noEncontrado(msgProductoInexistente)
		}
		costoAntes, precioAntes := p.CostoVigente, p.PrecioVigente

		if req.Nombre != nil {
			p.Nombre = strings.TrimSpace(*req.Nombre)
		}
		if req.Descripcion != nil {
			p.Descripcion = *req.Descripcion
		}
		if categoriaID != nil {
			p.CategoriaID = *categoriaID
		}
		if req.PrecioVigente != nil {
			p.PrecioVigente = *req.PrecioVigente
		}
		if req.CostoVigente != nil {
			p.CostoVigente = *req.CostoVigente
		}
		if req.StockSeguridad != nil {
			p.StockSeguridad = *req.StockSeguridad
		}
		if req.CompraDirecta != nil {
			p.CompraDirecta = *req.CompraDirecta
		}
		if req.VentaDirecta != nil {
			p.VentaDirecta = *req.VentaDirecta
		}
		if p.PrecioVigente.IsNegative() || p.CostoVigente.IsNegative() {
			return validacion("El precio y el costo no pueden ser negativos.")
		}
		if err := validarMargen(p.VentaDirecta, p.CostoVigente, p.PrecioVigente); err != nil {
			return err
		}
		p.UpdatedAt = time.Now()
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}

		if !costoAntes.Equal(p.CostoVigente) || !precioAntes.Equal(p.PrecioVigente) {
			if err := s.historial.CreateTx(tx, &model.HistorialPrecio{
				ID:            uuid.New(),
				ProductoID:    p.ID,
				UsuarioID:     &usuarioID,
				CostoAntes:    costoAntes,
				CostoDespues:  p.CostoVigente,
				PrecioAntes:   precioAntes,
				PrecioDespues: p.PrecioVigente,
				Motivo:        model.MotivoPrecioEdicion,
			}); err != nil {
				return err
			}
		}

		if req.Stock != nil && *req.Stock != p.Stock {
			_, m, err := s.inv.aplicarTx(tx, movimiento{
				productoID:  p.ID,
				tipo:        model.MovimientoAjuste,
				delta:       *req.Stock - p.Stock,
				descripcion: "Edición de producto",
				usuarioID:   &usuarioID,
			})
			if err != nil {
				return err
			}
			movs = append(movs, m)
			p.Stock = *req.Stock
		}
		actualizado = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	contarMovimientos(movs)
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)

	resp := productoToResponse(actualizado)
	return &resp, nil
}

// Borrar soft-deletes a product that no pending pedido references.
func (s *productoService) Borrar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return siNoExiste(err, msgProductoInexistente)
	}
	n, err := s.repo.ContarEnPedidosPendientes(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflicto("El producto no se puede borrar porque está incluido en pedidos pendientes.")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)
	return nil
}

func (s *productoService) HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.HistorialPrecioResponse, int64, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, 0, siNoExiste(err, msgProductoInexistente)
	}
	rows, total, err := s.historial.ListByProducto(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.HistorialPrecioResponse, 0, len(rows))
	for i := range rows {
		out = append(out, historialToResponse(&rows[i]))
	}
	return out, total, nil
}

func (s *productoService) validarCategoria(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validacion("La categoría seleccionada no existe.")
	}
	if _, err := s.categorias.ObtenerPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, validacion("La categoría seleccionada no existe.")
		}
		return uuid.Nil, err
	}
	return id, nil
}

// validarMargen requires products sold directly to cost less than their price.
func validarMargen(ventaDirecta bool, costo, precio decimal.Decimal) error {
	if ventaDirecta && costo.GreaterThanOrEqual(precio) {
		return validacion("El costo debe ser menor al precio de venta.")
	}
	return nil
}
