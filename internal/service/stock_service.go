package service

import (
	"context"
	"fmt"
	"time"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService manages ingresos, reemplazos de mercadería and the movement
// ledger they produce.
type StockService interface {
	CrearIngreso(ctx context.Context, sol Solicitante, req dto.CrearIngresoRequest) (*dto.DocumentoStockResponse, error)
	ObtenerIngreso(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error)
	ListarIngresos(ctx context.Context, sol Solicitante, filter dto.DocumentoStockFilter) ([]dto.DocumentoStockResponse, int64, error)
	AnularIngreso(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error)

	CrearReemplazo(ctx context.Context, sol Solicitante, req dto.CrearReemplazoRequest) (*dto.DocumentoStockResponse, error)
	ObtenerReemplazo(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error)
	ListarReemplazos(ctx context.Context, sol Solicitante, filter dto.DocumentoStockFilter) ([]dto.DocumentoStockResponse, int64, error)
	AnularReemplazo(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error)

	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, int64, error)
}

type stockService struct {
	ingresos    repository.IngresoRepository
	reemplazos  repository.ReemplazoRepository
	movimientos repository.MovimientoStockRepository
	productos   repository.ProductoRepository
	historial   repository.HistorialPrecioRepository
	inv         *inventario
	cache       *infra.Cache
	now         func() time.Time
}

func NewStockService(
	ingresos repository.IngresoRepository,
	reemplazos repository.ReemplazoRepository,
	movimientos repository.MovimientoStockRepository,
	productos repository.ProductoRepository,
	historial repository.HistorialPrecioRepository,
	cache *infra.Cache,
) StockService {
	return &stockService{
		ingresos:    ingresos,
		reemplazos:  reemplazos,
		movimientos: movimientos,
		productos:   productos,
		historial:   historial,
		inv:         &inventario{productos: productos, movimientos: movimientos},
		cache:       cache,
		now:         time.Now,
	}
}

const (
	msgIngresoInexistente   = "El ingreso no existe."
	msgReemplazoInexistente = "El reemplazo de mercadería no existe."
)

// ─── Ingresos ────────────────────────────────────────────────────────────────

// CrearIngreso adds stock for every line. A line whose cost differs from the
// product's current cost updates it and records the change.
func (s *stockService) CrearIngreso(ctx context.Context, sol Solicitante, req dto.CrearIngresoRequest) (*dto.DocumentoStockResponse, error) {
	ids := make([]string, len(req.Lineas))
	for i, l := range req.Lineas {
		ids[i] = l.ProductoID
	}
	productoIDs, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}

	usuarioID := sol.ID
	ingreso := &model.Ingreso{
		ID:        uuid.New(),
		UsuarioID: usuarioID,
		Fecha:     s.now(),
		Total:     decimal.Zero,
	}
	for i, l := range req.Lineas {
		total := l.Costo.Mul(decimal.NewFromInt(int64(l.Cantidad)))
		ingreso.Lineas = append(ingreso.Lineas, model.IngresoLinea{
			ID:         uuid.New(),
			IngresoID:  ingreso.ID,
			ProductoID: productoIDs[i],
			Cantidad:   l.Cantidad,
			Costo:      l.Costo,
			Total:      total,
		})
		ingreso.Total = ingreso.Total.Add(total)
	}

	var movs []*model.MovimientoStock
	err = runTx(ctx, s.ingresos.DB(), func(tx *gorm.DB) error {
		for _, l := range ingreso.Lineas {
			if _, err := s.inv.productoVendible(tx, l.ProductoID); err != nil {
				return err
			}
		}
		if err := s.ingresos.CreateTx(tx, ingreso); err != nil {
			return err
		}
		for i := range ingreso.Lineas {
			l := ingreso.Lineas[i]
			p, m, err := s.inv.aplicarTx(tx, movimiento{
				productoID:  l.ProductoID,
				tipo:        model.MovimientoIngreso,
				delta:       l.Cantidad,
				descripcion: "Ingreso de mercadería " + ingreso.NumeroTexto(),
				usuarioID:   &usuarioID,
				vincular:    func(m *model.MovimientoStock) { m.IngresoLineaID = &l.ID },
			})
			if err != nil {
				return err
			}
			movs = append(movs, m)

			if !p.CostoVigente.Equal(l.Costo) {
				if err := s.productos.UpdateCostoTx(tx, p.ID, l.Costo); err != nil {
					return err
				}
				if err := s.historial.CreateTx(tx, &model.HistorialPrecio{
					ID:            uuid.New(),
					ProductoID:    p.ID,
					UsuarioID:     &usuarioID,
					CostoAntes:    p.CostoVigente,
					CostoDespues:  l.Costo,
					PrecioAntes:   p.PrecioVigente,
					PrecioDespues: p.PrecioVigente,
					Motivo:        model.MotivoPrecioIngreso,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	contarMovimientos(movs)
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)
	log.Info().Str("ingreso", ingreso.ID.String()).Int("lineas", len(ingreso.Lineas)).Msg("stock: ingreso registrado")

	return s.ObtenerIngreso(ctx, sol, ingreso.ID)
}

func (s *stockService) ObtenerIngreso(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error) {
	i, err := s.ingresos.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgIngresoInexistente)
	}
	resp := ingresoToResponse(i, sol)
	return &resp, nil
}

func (s *stockService) ListarIngresos(ctx context.Context, sol Solicitante, filter dto.DocumentoStockFilter) ([]dto.DocumentoStockResponse, int64, error) {
	filter.Normalizar()
	list, total, err := s.ingresos.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.DocumentoStockResponse, 0, len(list))
	for k := range list {
		out = append(out, ingresoToResponse(&list[k], sol))
	}
	return out, total, nil
}

// AnularIngreso marks the document and its movements. Stock is not reverted.
func (s *stockService) AnularIngreso(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error) {
	if !sol.EsAdministrador() {
		return nil, noAutorizado("Solo un administrador puede anular ingresos.")
	}
	i, err := s.ingresos.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgIngresoInexistente)
	}
	if i.EstaAnulado() {
		return nil, conflicto("El ingreso ya se encuentra anulado.")
	}

	fecha := s.now()
	err = runTx(ctx, s.ingresos.DB(), func(tx *gorm.DB) error {
		ok, err := s.ingresos.MarcarAnuladoTx(tx, id, fecha)
		if err != nil {
			return err
		}
		if !ok {
			return conflicto("El ingreso ya se encuentra anulado.")
		}
		return s.movimientos.AnularPorIngresoTx(tx, id, fecha)
	})
	if err != nil {
		return nil, err
	}
	i.Anulado = &fecha
	resp := ingresoToResponse(i, sol)
	return &resp, nil
}

// ─── Reemplazos ──────────────────────────────────────────────────────────────

// CrearReemplazo withdraws goods from stock at the product's current cost.
func (s *stockService) CrearReemplazo(ctx context.Context, sol Solicitante, req dto.CrearReemplazoRequest) (*dto.DocumentoStockResponse, error) {
	ids := make([]string, len(req.Lineas))
	for i, l := range req.Lineas {
		ids[i] = l.ProductoID
	}
	productoIDs, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}

	usuarioID := sol.ID
	reemplazo := &model.ReemplazoMercaderia{
		ID:        uuid.New(),
		UsuarioID: usuarioID,
		Fecha:     s.now(),
		Total:     decimal.Zero,
	}

	var movs []*model.MovimientoStock
	err = runTx(ctx, s.reemplazos.DB(), func(tx *gorm.DB) error {
		reemplazo.Lineas = reemplazo.Lineas[:0]
		reemplazo.Total = decimal.Zero
		for i, l := range req.Lineas {
			p, err := s.inv.productoVendible(tx, productoIDs[i])
			if err != nil {
				return err
			}
			if l.Cantidad > p.Stock {
				return validacion(fmt.Sprintf("No hay stock suficiente de %s. Disponible: %d.", p.Nombre, p.Stock))
			}
			total := p.CostoVigente.Mul(decimal.NewFromInt(int64(l.Cantidad)))
			reemplazo.Lineas = append(reemplazo.Lineas, model.ReemplazoMercaderiaLinea{
				ID:          uuid.New(),
				ReemplazoID: reemplazo.ID,
				ProductoID:  p.ID,
				Cantidad:    l.Cantidad,
				Costo:       p.CostoVigente,
				Total:       total,
			})
			reemplazo.Total = reemplazo.Total.Add(total)
		}
		if err := s.reemplazos.CreateTx(tx, reemplazo); err != nil {
			return err
		}
		for i := range reemplazo.Lineas {
			l := reemplazo.Lineas[i]
			_, m, err := s.inv.aplicarTx(tx, movimiento{
				productoID:  l.ProductoID,
				tipo:        model.MovimientoReemplazo,
				delta:       -l.Cantidad,
				descripcion: "Reemplazo de mercadería " + reemplazo.NumeroTexto(),
				usuarioID:   &usuarioID,
				vincular:    func(m *model.MovimientoStock) { m.ReemplazoLineaID = &l.ID },
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
	log.Info().Str("reemplazo", reemplazo.ID.String()).Int("lineas", len(reemplazo.Lineas)).Msg("stock: reemplazo registrado")

	return s.ObtenerReemplazo(ctx, sol, reemplazo.ID)
}

func (s *stockService) ObtenerReemplazo(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error) {
	r, err := s.reemplazos.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgReemplazoInexistente)
	}
	resp := reemplazoToResponse(r, sol)
	return &resp, nil
}

func (s *stockService) ListarReemplazos(ctx context.Context, sol Solicitante, filter dto.DocumentoStockFilter) ([]dto.DocumentoStockResponse, int64, error) {
	filter.Normalizar()
	list, total, err := s.reemplazos.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.DocumentoStockResponse, 0, len(list))
	for k := range list {
		out = append(out, reemplazoToResponse(&list[k], sol))
	}
	return out, total, nil
}

func (s *stockService) AnularReemplazo(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.DocumentoStockResponse, error) {
	if !sol.EsAdministrador() {
		return nil, noAutorizado("Solo un administrador puede anular reemplazos de mercadería.")
	}
	r, err := s.reemplazos.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgReemplazoInexistente)
	}
	if r.EstaAnulado() {
		return nil, conflicto("El reemplazo de mercadería ya se encuentra anulado.")
	}

	fecha := s.now()
	err = runTx(ctx, s.reemplazos.DB(), func(tx *gorm.DB) error {
		ok, err := s.reemplazos.MarcarAnuladoTx(tx, id, fecha)
		if err != nil {
			return err
		}
		if !ok {
			return conflicto("El reemplazo de mercadería ya se encuentra anulado.")
		}
		return s.movimientos.AnularPorReemplazoTx(tx, id, fecha)
	})
	if err != nil {
		return nil, err
	}
	r.Anulado = &fecha
	resp := reemplazoToResponse(r, sol)
	return &resp, nil
}

// ─── Movimientos ─────────────────────────────────────────────────────────────

func (s *stockService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, int64, error) {
	filter.Normalizar()
	list, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoResponse, 0, len(list))
	for k := range list {
		out = append(out, movimientoToResponse(&list[k]))
	}
	return out, total, nil
}
