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
	"gorm.io/gorm"
)

// PedidoService drives the pedido state machine.
type PedidoService interface {
	// Guardar replaces the lines of the caller's open pedido, creating it when
	// needed. An empty list deletes it and returns a nil pedido.
	Guardar(ctx context.Context, sol Solicitante, req dto.GuardarPedidoRequest) (*dto.PedidoResponse, error)
	// ObtenerAbierto returns the open pedido, or cerrado=true when the caller
	// only has one in preparation.
	ObtenerAbierto(ctx context.Context, sol Solicitante) (pedido *dto.PedidoResponse, cerrado bool, err error)
	Cerrar(ctx context.Context, sol Solicitante, id uuid.UUID, req dto.CerrarPedidoRequest) (*dto.PedidoResponse, error)
	Entregar(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.PedidoResponse, error)
	Cancelar(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, sol Solicitante, filter dto.PedidoFilter) ([]dto.PedidoResponse, int64, error)
	ListarVendedor(ctx context.Context, sol Solicitante, filter dto.PedidoFilter) ([]dto.PedidoResponse, int64, error)
	Obtener(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.PedidoResponse, error)
	Comanda(ctx context.Context, sol Solicitante, id uuid.UUID) ([]byte, string, error)
}

type pedidoService struct {
	repo        repository.PedidoRepository
	libro       *libroVentas
	inv         *inventario
	cache       *infra.Cache
	nombreLocal string
	now         func() time.Time
}

func NewPedidoService(
	repo repository.PedidoRepository,
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	cache *infra.Cache,
	nombreLocal string,
) PedidoService {
	return &pedidoService{
		repo:        repo,
		libro:       newLibroVentas(ventas, productos, movimientos),
		inv:         &inventario{productos: productos, movimientos: movimientos},
		cache:       cache,
		nombreLocal: nombreLocal,
		now:         time.Now,
	}
}

const (
	msgPedidoInexistente = "El pedido no existe."
	MensajePedidoCerrado = "Pedido realizado con éxito, podrá retirarlo por el local en aproximadamente 45 minutos."
)

func (s *pedidoService) Guardar(ctx context.Context, sol Solicitante, req dto.GuardarPedidoRequest) (*dto.PedidoResponse, error) {
	ids := make([]string, len(req.Lineas))
	for i, l := range req.Lineas {
		ids[i] = l.ProductoID
	}
	productoIDs, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}

	abierto, err := s.repo.FindAbierto(ctx, sol.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		abierto = nil
	}

	if len(req.Lineas) == 0 {
		if abierto == nil {
			return nil, nil
		}
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.repo.DeleteTx(tx, abierto.ID)
		})
		return nil, err
	}

	usuarioID := sol.ID
	var pedidoID uuid.UUID
	var nuevo bool
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p := abierto
		if p == nil {
			nuevo = true
			p = &model.Pedido{
				ID:        uuid.New(),
				UsuarioID: usuarioID,
				Fecha:     s.now(),
				Tipo:      model.TipoPedidoOnline,
				Estado:    model.EstadoAbierto,
			}
		} else {
			bloqueado, err := s.repo.FindByIDTx(tx, p.ID)
			if err != nil {
				return siNoExiste(err, msgPedidoInexistente)
			}
			if bloqueado.Estado != model.EstadoAbierto {
				return conflicto("El pedido ya no se encuentra abierto.")
			}
			p = bloqueado
		}

		p.Lineas = p.Lineas[:0]
		for i, l := range req.Lineas {
			prod, err := s.inv.productoVendible(tx, productoIDs[i])
			if err != nil {
				return err
			}
			if !prod.VentaDirecta {
				return validacion(fmt.Sprintf("El producto %s no está a la venta.", prod.Nombre))
			}
			if l.Cantidad > prod.Stock {
				return validacion(fmt.Sprintf("No hay stock suficiente de %s. Disponible: %d.", prod.Nombre, prod.Stock))
			}
			p.Lineas = append(p.Lineas, model.PedidoLinea{
				ID:         uuid.New(),
				PedidoID:   p.ID,
				ProductoID: prod.ID,
				Cantidad:   l.Cantidad,
				Precio:     prod.PrecioVigente,
			})
		}
		p.RecalcularTotal()
		pedidoID = p.ID

		if nuevo {
			if err := s.repo.CreateTx(tx, p); err != nil {
				return err
			}
			return s.repo.CreateEstadoTx(tx, &model.PedidoEstado{
				ID: uuid.New(), PedidoID: p.ID, Estado: model.EstadoAbierto, UsuarioID: &usuarioID,
			})
		}
		if err := s.repo.ReemplazarLineasTx(tx, p); err != nil {
			return err
		}
		return s.repo.UpdateTx(tx, p)
	})
	if err != nil {
		return nil, err
	}
	if nuevo {
		metrics.PedidosTransiciones.WithLabelValues(string(model.EstadoAbierto)).Inc()
	}
	return s.Obtener(ctx, sol, pedidoID)
}

func (s *pedidoService) ObtenerAbierto(ctx context.Context, sol Solicitante) (*dto.PedidoResponse, bool, error) {
	p, err := s.repo.FindAbierto(ctx, sol.ID)
	if err == nil {
		resp := pedidoToResponse(p, sol)
		return &resp, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	cerrado, err := s.repo.ExisteCerrado(ctx, sol.ID)
	if err != nil {
		return nil, false, err
	}
	if cerrado {
		return nil, true, nil
	}
	return nil, false, noEncontrado("")
}

// Cerrar turns the open pedido into an online venta and moves it to CERRADO.
func (s *pedidoService) Cerrar(ctx context.Context, sol Solicitante, id uuid.UUID, req dto.CerrarPedidoRequest) (*dto.PedidoResponse, error) {
	usuarioID := sol.ID
	var movs []*model.MovimientoStock
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return siNoExiste(err, msgPedidoInexistente)
		}
		if p.UsuarioID != usuarioID {
			return noAutorizado("No está habilitado para cerrar el pedido.")
		}
		if p.Estado != model.EstadoAbierto {
			return conflicto("El pedido ya se encuentra cerrado.")
		}
		if len(p.Lineas) == 0 {
			return validacion("El pedido no tiene productos.")
		}

		pedidoID := p.ID
		venta := &model.Venta{
			ID:        uuid.New(),
			UsuarioID: p.UsuarioID,
			Tipo:      model.TipoVentaOnline,
			PagaCon:   req.PagaCon,
			PedidoID:  &pedidoID,
		}
		for _, l := range p.Lineas {
			venta.Lineas = append(venta.Lineas, model.VentaLinea{
				ID:         uuid.New(),
				VentaID:    venta.ID,
				ProductoID: l.ProductoID,
				Cantidad:   l.Cantidad,
				Precio:     l.Precio,
			})
		}
		if movs, err = s.libro.registrarTx(tx, venta, false); err != nil {
			return err
		}

		estado, err := p.Transicionar(model.EstadoCerrado, &usuarioID)
		if err != nil {
			return conflicto(err.Error())
		}
		estado.ID = uuid.New()
		p.VentaID = &venta.ID
		p.Total = venta.Total
		p.PagaCon = req.PagaCon
		p.Vuelto = venta.Vuelto
		p.Delivery = req.Delivery
		p.Direccion = req.Direccion
		if !p.Delivery {
			p.Direccion = ""
		}
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		return s.repo.CreateEstadoTx(tx, estado)
	})
	if err != nil {
		return nil, err
	}
	contarMovimientos(movs)
	metrics.PedidosTransiciones.WithLabelValues(string(model.EstadoCerrado)).Inc()
	metrics.Ventas.WithLabelValues(model.TipoVentaOnline, "registrada").Inc()
	s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)
	log.Info().Str("pedido", id.String()).Msg("pedido: cerrado")

	return s.Obtener(ctx, sol, id)
}

// Entregar marks a CERRADO pedido as delivered. Recibir uses it too.
func (s *pedidoService) Entregar(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.PedidoResponse, error) {
	if !sol.EsElevado() {
		return nil, noAutorizado("No está habilitado para entregar pedidos.")
	}
	usuarioID := sol.ID
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return siNoExiste(err, msgPedidoInexistente)
		}
		switch p.Estado {
		case model.EstadoAbierto:
			return conflicto("No se puede marcar como entregado el pedido debido a que el usuario no lo ha cerrado.")
		case model.EstadoEntregado:
			return conflicto("El pedido ya se encuentra en estado entregado.")
		case model.EstadoCerrado:
		default:
			return conflicto("Ha ocurrido un error al entregar el pedido.")
		}
		estado, err := p.Transicionar(model.EstadoEntregado, &usuarioID)
		if err != nil {
			return conflicto("Ha ocurrido un error al entregar el pedido.")
		}
		estado.ID = uuid.New()
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		return s.repo.CreateEstadoTx(tx, estado)
	})
	if err != nil {
		return nil, err
	}
	metrics.PedidosTransiciones.WithLabelValues(string(model.EstadoEntregado)).Inc()
	return s.Obtener(ctx, sol, id)
}

// Cancelar cancels a pedido that is not terminal. A CERRADO pedido also
// annuls its venta, returning the goods to stock.
func (s *pedidoService) Cancelar(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.PedidoResponse, error) {
	usuarioID := sol.ID
	var movs []*model.MovimientoStock
	var ventaAnulada *model.Venta
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return siNoExiste(err, msgPedidoInexistente)
		}
		if p.UsuarioID != usuarioID && !sol.EsElevado() {
			return noAutorizado("No está habilitado para cancelar el pedido.")
		}
		switch p.Estado {
		case model.EstadoCancelado:
			return conflicto("El pedido ya se encuentra cancelado.")
		case model.EstadoEntregado:
			return conflicto("El pedido ya se encuentra entregado.")
		}

		if p.Estado == model.EstadoCerrado && p.VentaID != nil {
			ventaAnulada, movs, err = s.libro.anularTx(tx, *p.VentaID, &usuarioID, s.now())
			if err != nil {
				return err
			}
		}

		estado, err := p.Transicionar(model.EstadoCancelado, &usuarioID)
		if err != nil {
			return conflicto(err.Error())
		}
		estado.ID = uuid.New()
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		return s.repo.CreateEstadoTx(tx, estado)
	})
	if err != nil {
		return nil, err
	}
	contarMovimientos(movs)
	metrics.PedidosTransiciones.WithLabelValues(string(model.EstadoCancelado)).Inc()
	if ventaAnulada != nil {
		metrics.Ventas.WithLabelValues(ventaAnulada.Tipo, "anulada").Inc()
		s.cache.InvalidatePrefix(ctx, infra.CacheCatalogo)
	}
	return s.Obtener(ctx, sol, id)
}

func (s *pedidoService) Listar(ctx context.Context, sol Solicitante, filter dto.PedidoFilter) ([]dto.PedidoResponse, int64, error) {
	usuarioID := sol.ID
	return s.listar(ctx, sol, filter, &usuarioID)
}

func (s *pedidoService) ListarVendedor(ctx context.Context, sol Solicitante, filter dto.PedidoFilter) ([]dto.PedidoResponse, int64, error) {
	if !sol.EsElevado() {
		return nil, 0, noAutorizado("No está habilitado para ver los pedidos.")
	}
	return s.listar(ctx, sol, filter, nil)
}

func (s *pedidoService) listar(ctx context.Context, sol Solicitante, filter dto.PedidoFilter, usuarioID *uuid.UUID) ([]dto.PedidoResponse, int64, error) {
	filter.Normalizar()
	list, total, err := s.repo.List(ctx, filter, usuarioID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PedidoResponse, 0, len(list))
	for i := range list {
		out = append(out, pedidoToResponse(&list[i], sol))
	}
	return out, total, nil
}

func (s *pedidoService) Obtener(ctx context.Context, sol Solicitante, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, siNoExiste(err, msgPedidoInexistente)
	}
	if p.UsuarioID != sol.ID && !sol.EsElevado() {
		return nil, noAutorizado("No está habilitado para ver este pedido.")
	}
	resp := pedidoToResponse(p, sol)
	return &resp, nil
}

// Comanda renders the kitchen ticket of a pedido in preparation.
func (s *pedidoService) Comanda(ctx context.Context, sol Solicitante, id uuid.UUID) ([]byte, string, error) {
	if !sol.EsElevado() {
		return nil, "", noAutorizado("No está habilitado para descargar la comanda.")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", siNoExiste(err, msgPedidoInexistente)
	}
	if p.Estado != model.EstadoCerrado {
		return nil, "", conflicto("Solo se puede descargar la comanda de un pedido en preparación.")
	}
	pdf, err := infra.GenerarComanda(p, s.nombreLocal)
	if err != nil {
		return nil, "", fmt.Errorf("generar comanda: %w", err)
	}
	return pdf, "comanda-" + p.NumeroTexto() + ".pdf", nil
}
