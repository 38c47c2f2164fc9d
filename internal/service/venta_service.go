package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/metrics"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarLocal(ctx context.Context, sol Solicitante, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, sol Solicitante, filter dto.VentaFilter) ([]dto.VentaResponse, int64, error)
	Obtener(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.VentaResponse, error)
	Ticket(ctx context.Context, sol Solicitante, id uuid.UUID) ([]byte, string, error)
}

type ventaService struct {
	repo        repository.VentaRepository
	pedidos     repository.PedidoRepository
	libro       *libroVentas
	cache       *infra.Cache
	nombreLocal string
	now         func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	pedidos repository.PedidoRepository,
	productos repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	cache *infra.Cache,
	nombreLocal string,
) VentaService {
	return &ventaService{
		repo:        repo,
		pedidos:     pedidos,
		libro:       newLibroVentas(repo, productos, movimientos),
		cache:       cache,
		nombreLocal: nombreLocal,
		now:         time.Now,
	}
}

const msgVentaInexistente = "La venta no existe."

// ── RegistrarLocal ───────────────────────────────────────────────────────────
//   1. Parse lines and reject repeated products
//   2. BEGIN TX: price lines from current prices, check payment, create venta,
//      one venta movement per line
//   3. COMMIT, count metrics, drop the cached catalog

func (s *ventaService) RegistrarLocal(ctx context.Context, sol Solicitante, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	ids := make([]string, len(req.Lineas))
	for i, l := range req.Lineas {
		ids[i] = l.ProductoID
	}
	productoIDs, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}

	pagaCon := req.PagaCon
	venta := &model.Venta{
		ID:        uuid.New(),
		UsuarioID: sol.ID,
		Tipo:      model.TipoVentaLocal,
		PagaCon:   &pagaCon,
	}
	for i, l := range req.Lineas {
		venta.Lineas = append(venta.Lineas, model.VentaLinea{
			ID:         uuid.New(),
			VentaID:    venta.ID,
			ProductoID: productoIDs[i],
			Cantidad:   l.Cantidad,
		})
	}

	var movs []*model.MovimientoStock
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		movs, err = s.libro.registrarTx(tx, venta, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	contarMovimientos(movs)
	metrics.Ventas.WithLabelValues(venta.Tipo, "registrada").Inc()
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)
	log.Info().Str("venta", venta.ID.String()).Str("total", venta.Total.String()).Msg("venta: local registrada")

	return s.Obtener(ctx, sol, venta.ID)
}

// Anular restores stock and cancels the pedido the venta came from when it is
// still CERRADO.
func (s *ventaService) Anular(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.VentaResponse, error) {
	if !sol.EsElevado() {
		return nil, noAutorizado("No está habilitado para anular ventas.")
	}
	usuarioID := sol.ID

	var venta *model.Venta
	var movs []*model.MovimientoStock
	var pedidoCancelado bool
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		venta, movs, err = s.libro.anularTx(tx, id, &usuarioID, s.now())
		if err != nil {
			return err
		}
		if venta.PedidoID == nil || s.pedidos == nil {
			return nil
		}
		p, err := s.pedidos.FindByVentaIDTx(tx, venta.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if p.Estado != model.EstadoCerrado {
			return nil
		}
		estado, err := p.Transicionar(model.EstadoCancelado, &usuarioID)
		if err != nil {
			return conflicto(err.Error())
		}
		estado.ID = uuid.New()
		if err := s.pedidos.UpdateTx(tx, p); err != nil {
			return err
		}
		pedidoCancelado = true
		return s.pedidos.CreateEstadoTx(tx, estado)
	})
	if err != nil {
		return nil, err
	}
	contarMovimientos(movs)
	metrics.Ventas.WithLabelValues(venta.Tipo, "anulada").Inc()
	if pedidoCancelado {
		metrics.PedidosTransiciones.WithLabelValues(string(model.EstadoCancelado)).Inc()
	}
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)

	return s.Obtener(ctx, sol, id)
}

func (s *ventaService) Listar(ctx context.Context, sol Solicitante, filter dto.VentaFilter) ([]dto.VentaResponse, int64, error) {
	filter.Normalizar()
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.VentaResponse, 0, len(list))
	for i := range list {
		out = append(out, ventaToResponse(&list[i], sol))
	}
	return out, total, nil
}

func (s *ventaService) Obtener(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgVentaInexistente)
	}
	if v.UsuarioID != sol.ID && !sol.EsElevado() {
		return nil, noAutorizado("No está habilitado para ver esta venta.")
	}
	resp := ventaToResponse(v, sol)
	return &resp, nil
}

// Ticket renders the sale ticket PDF and returns it with its file name.
func (s *ventaService) Ticket(ctx context.Context, sol Solicitante, id uuid.UUID) ([]byte, string, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", siNoExiste(err, msgVentaInexistente)
	}
	if v.UsuarioID != sol.ID && !sol.EsElevado() {
		return nil, "", noAutorizado("No está habilitado para descargar el ticket de esta venta.")
	}
	pdf, err := infra.GenerarTicketVenta(v, s.nombreLocal)
	if err != nil {
		return nil, "", fmt.Errorf("generar ticket: %w", err)
	}
	return pdf, "ticket-" + v.NumeroTexto() + ".pdf", nil
}

// ─── libroVentas ─────────────────────────────────────────────────────────────

// libroVentas writes and annuls ventas with their stock movements. It is
// shared by ventas registered at the counter and pedidos closed online.
type libroVentas struct {
	repo repository.VentaRepository
	inv  *inventario
}

func newLibroVentas(repo repository.VentaRepository, productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository) *libroVentas {
	return &libroVentas{repo: repo, inv: &inventario{productos: productos, movimientos: movimientos}}
}

// registrarTx persists v and takes its lines out of stock. With
// precioActual each line is priced at the product's current price; otherwise
// the line prices already set are kept.
func (lv *libroVentas) registrarTx(tx *gorm.DB, v *model.Venta, precioActual bool) ([]*model.MovimientoStock, error) {
	v.Total = decimal.Zero
	for i := range v.Lineas {
		l := &v.Lineas[i]
		p, err := lv.inv.productoVendible(tx, l.ProductoID)
		if err != nil {
			return nil, err
		}
		if !p.VentaDirecta {
			return nil, validacion(fmt.Sprintf("El producto %s no está a la venta.", p.Nombre))
		}
		if precioActual {
			l.Precio = p.PrecioVigente
		}
		l.Total = l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
		v.Total = v.Total.Add(l.Total)
	}

	if v.PagaCon != nil {
		if v.PagaCon.LessThan(v.Total) {
			return nil, validacion("El monto con el que paga es menor al total.")
		}
		v.Vuelto = v.PagaCon.Sub(v.Total)
	}

	if err := lv.repo.CreateTx(tx, v); err != nil {
		return nil, err
	}

	movs := make([]*model.MovimientoStock, 0, len(v.Lineas))
	for i := range v.Lineas {
		l := v.Lineas[i]
		_, m, err := lv.inv.aplicarTx(tx, movimiento{
			productoID:  l.ProductoID,
			tipo:        model.MovimientoVenta,
			delta:       -l.Cantidad,
			descripcion: "Venta " + v.Tipo,
			usuarioID:   &v.UsuarioID,
			vincular:    func(m *model.MovimientoStock) { m.VentaLineaID = &l.ID },
		})
		if err != nil {
			return nil, err
		}
		movs = append(movs, m)
	}
	return movs, nil
}

// anularTx marks the venta and puts every line back into stock.
func (lv *libroVentas) anularTx(tx *gorm.DB, id uuid.UUID, usuarioID *uuid.UUID, fecha time.Time) (*model.Venta, []*model.MovimientoStock, error) {
	v, err := lv.repo.FindByIDTx(tx, id)
	if err != nil {
		return nil, nil, siNoExiste(err, msgVentaInexistente)
	}
	if v.EstaAnulada() {
		return nil, nil, conflicto("La venta ya se encuentra anulada.")
	}
	ok, err := lv.repo.MarcarAnuladaTx(tx, id, fecha)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, conflicto("La venta ya se encuentra anulada.")
	}
	v.Anulada = &fecha

	movs := make([]*model.MovimientoStock, 0, len(v.Lineas))
	for i := range v.Lineas {
		l := v.Lineas[i]
		_, m, err := lv.inv.aplicarTx(tx, movimiento{
			productoID:  l.ProductoID,
			tipo:        model.MovimientoAnulacionVenta,
			delta:       l.Cantidad,
			descripcion: "Anulación de venta " + v.NumeroTexto(),
			usuarioID:   usuarioID,
			vincular:    func(m *model.MovimientoStock) { m.VentaLineaID = &l.ID },
		})
		if err != nil {
			return nil, nil, err
		}
		movs = append(movs, m)
	}
	return v, movs, nil
}
