package service_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/martingh15/proyecto-backend/internal/dto"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. Transactions run with a nil *gorm.DB, see runTx.

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	pendiente map[uuid.UUID]int64
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos: make(map[uuid.UUID]*model.Producto),
		pendiente: make(map[uuid.UUID]int64),
	}
}

// agregar registers a sellable product and returns it.
func (r *stubProductoRepo) agregar(nombre string, stock int, precio, costo string) *model.Producto {
	p := &model.Producto{
		ID:            uuid.New(),
		Nombre:        nombre,
		CategoriaID:   uuid.New(),
		PrecioVigente: decimal.RequireFromString(precio),
		CostoVigente:  decimal.RequireFromString(costo),
		Stock:         stock,
		VentaDirecta:  true,
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || p.Borrado {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if !p.Borrado {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Catalogo(_ context.Context, filter dto.CatalogoFilter) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Borrado || !p.VentaDirecta {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Borrado = true
	return nil
}

func (r *stubProductoRepo) ContarEnPedidosPendientes(_ context.Context, id uuid.UUID) (int64, error) {
	return r.pendiente[id], nil
}

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto) error {
	actual, ok := r.productos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stock := actual.Stock
	cp := *p
	cp.Stock = stock
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductoRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CostoVigente = costo
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubMovimientoRepo captures movements for assertion.
type stubMovimientoRepo struct {
	movimientos []*model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	out := make([]model.MovimientoStock, 0, len(r.movimientos))
	for _, m := range r.movimientos {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) AnularPorIngresoTx(_ *gorm.DB, _ uuid.UUID, fecha time.Time) error {
	for _, m := range r.movimientos {
		if m.IngresoLineaID != nil {
			m.Anulado = &fecha
		}
	}
	return nil
}

func (r *stubMovimientoRepo) AnularPorReemplazoTx(_ *gorm.DB, _ uuid.UUID, fecha time.Time) error {
	for _, m := range r.movimientos {
		if m.ReemplazoLineaID != nil {
			m.Anulado = &fecha
		}
	}
	return nil
}

func (r *stubMovimientoRepo) SumaCantidades(_ context.Context, productoID uuid.UUID) (int64, error) {
	var total int64
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			total += int64(m.Cantidad)
		}
	}
	return total, nil
}

// delTipo returns the movements of one type.
func (r *stubMovimientoRepo) delTipo(t model.TipoMovimiento) []*model.MovimientoStock {
	var out []*model.MovimientoStock
	for _, m := range r.movimientos {
		if m.Tipo == t {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

type stubHistorialRepo struct {
	filas []model.HistorialPrecio
}

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	r.filas = append(r.filas, *h)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _, _ int) ([]model.HistorialPrecio, int64, error) {
	var out []model.HistorialPrecio
	for _, h := range r.filas {
		if h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.HistorialPrecioRepository = (*stubHistorialRepo)(nil)

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
	seq     int64
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) copia(p *model.Pedido) *model.Pedido {
	cp := *p
	cp.Lineas = append([]model.PedidoLinea(nil), p.Lineas...)
	cp.Estados = append([]model.PedidoEstado(nil), p.Estados...)
	return &cp
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.copia(p), nil
}

func (r *stubPedidoRepo) FindAbierto(_ context.Context, usuarioID uuid.UUID) (*model.Pedido, error) {
	for _, p := range r.pedidos {
		if p.UsuarioID == usuarioID && p.Estado == model.EstadoAbierto {
			return r.copia(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) ExisteCerrado(_ context.Context, usuarioID uuid.UUID) (bool, error) {
	for _, p := range r.pedidos {
		if p.UsuarioID == usuarioID && p.Estado == model.EstadoCerrado {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPedidoRepo) List(_ context.Context, _ dto.PedidoFilter, usuarioID *uuid.UUID) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if usuarioID == nil || p.UsuarioID == *usuarioID {
			out = append(out, *r.copia(p))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	r.seq++
	p.Numero = r.seq
	r.pedidos[p.ID] = r.copia(p)
	return nil
}

func (r *stubPedidoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPedidoRepo) FindByVentaIDTx(_ *gorm.DB, ventaID uuid.UUID) (*model.Pedido, error) {
	for _, p := range r.pedidos {
		if p.VentaID != nil && *p.VentaID == ventaID {
			return r.copia(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) UpdateTx(_ *gorm.DB, p *model.Pedido) error {
	actual, ok := r.pedidos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := r.copia(p)
	cp.Estados = actual.Estados
	r.pedidos[p.ID] = cp
	return nil
}

func (r *stubPedidoRepo) ReemplazarLineasTx(_ *gorm.DB, p *model.Pedido) error {
	actual, ok := r.pedidos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	actual.Lineas = append([]model.PedidoLinea(nil), p.Lineas...)
	return nil
}

func (r *stubPedidoRepo) CreateEstadoTx(_ *gorm.DB, e *model.PedidoEstado) error {
	p, ok := r.pedidos[e.PedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estados = append(p.Estados, *e)
	return nil
}

func (r *stubPedidoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	seq    int64
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	r.seq++
	v.Numero = r.seq
	cp := *v
	cp.Lineas = append([]model.VentaLinea(nil), v.Lineas...)
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) MarcarAnuladaTx(_ *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error) {
	v, ok := r.ventas[id]
	if !ok || v.Anulada != nil {
		return false, nil
	}
	v.Anulada = &fecha
	return true, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// unica returns the only venta stored.
func (r *stubVentaRepo) unica() *model.Venta {
	for _, v := range r.ventas {
		return v
	}
	return nil
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

type stubIngresoRepo struct {
	ingresos map[uuid.UUID]*model.Ingreso
	seq      int64
}

func newStubIngresoRepo() *stubIngresoRepo {
	return &stubIngresoRepo{ingresos: make(map[uuid.UUID]*model.Ingreso)}
}

func (r *stubIngresoRepo) CreateTx(_ *gorm.DB, i *model.Ingreso) error {
	r.seq++
	i.Numero = r.seq
	cp := *i
	r.ingresos[i.ID] = &cp
	return nil
}

func (r *stubIngresoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingreso, error) {
	i, ok := r.ingresos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *stubIngresoRepo) List(_ context.Context, _ dto.DocumentoStockFilter) ([]model.Ingreso, int64, error) {
	var out []model.Ingreso
	for _, i := range r.ingresos {
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (r *stubIngresoRepo) MarcarAnuladoTx(_ *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error) {
	i, ok := r.ingresos[id]
	if !ok || i.Anulado != nil {
		return false, nil
	}
	i.Anulado = &fecha
	return true, nil
}

func (r *stubIngresoRepo) DB() *gorm.DB { return nil }

var _ repository.IngresoRepository = (*stubIngresoRepo)(nil)

type stubReemplazoRepo struct {
	reemplazos map[uuid.UUID]*model.ReemplazoMercaderia
	seq        int64
}

func newStubReemplazoRepo() *stubReemplazoRepo {
	return &stubReemplazoRepo{reemplazos: make(map[uuid.UUID]*model.ReemplazoMercaderia)}
}

func (r *stubReemplazoRepo) CreateTx(_ *gorm.DB, rm *model.ReemplazoMercaderia) error {
	r.seq++
	rm.Numero = r.seq
	cp := *rm
	r.reemplazos[rm.ID] = &cp
	return nil
}

func (r *stubReemplazoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ReemplazoMercaderia, error) {
	rm, ok := r.reemplazos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rm
	return &cp, nil
}

func (r *stubReemplazoRepo) List(_ context.Context, _ dto.DocumentoStockFilter) ([]model.ReemplazoMercaderia, int64, error) {
	var out []model.ReemplazoMercaderia
	for _, rm := range r.reemplazos {
		out = append(out, *rm)
	}
	return out, int64(len(out)), nil
}

func (r *stubReemplazoRepo) MarcarAnuladoTx(_ *gorm.DB, id uuid.UUID, fecha time.Time) (bool, error) {
	rm, ok := r.reemplazos[id]
	if !ok || rm.Anulado != nil {
		return false, nil
	}
	rm.Anulado = &fecha
	return true, nil
}

func (r *stubReemplazoRepo) DB() *gorm.DB { return nil }

var _ repository.ReemplazoRepository = (*stubReemplazoRepo)(nil)

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
	activos    map[uuid.UUID]int64
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{
		categorias: make(map[uuid.UUID]*model.Categoria),
		activos:    make(map[uuid.UUID]int64),
	}
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		if !c.Borrado {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok || c.Borrado {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) ExisteNombre(_ context.Context, nombre string, excluir *uuid.UUID) (bool, error) {
	for _, c := range r.categorias {
		if c.Borrado || (excluir != nil && c.ID == *excluir) {
			continue
		}
		if strings.EqualFold(c.Nombre, nombre) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Borrar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.categorias[id]; ok {
		c.Borrado = true
	}
	return nil
}

func (r *stubCategoriaRepo) ContarProductosActivos(_ context.Context, id uuid.UUID) (int64, error) {
	return r.activos[id], nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) buscar(f func(u *model.Usuario) bool) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if !u.Borrado && f(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	return r.buscar(func(u *model.Usuario) bool { return u.ID == id })
}

func (r *stubUsuarioRepo) FindByLogin(_ context.Context, login string) (*model.Usuario, error) {
	return r.buscar(func(u *model.Usuario) bool {
		return strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login)
	})
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	return r.buscar(func(u *model.Usuario) bool { return strings.EqualFold(u.Email, email) })
}

func (r *stubUsuarioRepo) FindByTokenEmail(_ context.Context, token string) (*model.Usuario, error) {
	return r.buscar(func(u *model.Usuario) bool { return u.TokenEmail != nil && *u.TokenEmail == token })
}

func (r *stubUsuarioRepo) FindByTokenReset(_ context.Context, token string) (*model.Usuario, error) {
	return r.buscar(func(u *model.Usuario) bool { return u.TokenReset != nil && *u.TokenReset == token })
}

func (r *stubUsuarioRepo) ExisteEmail(_ context.Context, email string, excluir *uuid.UUID) (bool, error) {
	_, err := r.buscar(func(u *model.Usuario) bool {
		return strings.EqualFold(u.Email, email) && (excluir == nil || u.ID != *excluir)
	})
	return err == nil, nil
}

func (r *stubUsuarioRepo) ExisteDNI(_ context.Context, dni int, excluir *uuid.UUID) (bool, error) {
	_, err := r.buscar(func(u *model.Usuario) bool {
		return u.DNI != nil && *u.DNI == dni && (excluir == nil || u.ID != *excluir)
	})
	return err == nil, nil
}

func (r *stubUsuarioRepo) ExisteLogin(_ context.Context, login string, excluir *uuid.UUID) (bool, error) {
	_, err := r.buscar(func(u *model.Usuario) bool {
		return (strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login)) &&
			(excluir == nil || u.ID != *excluir)
	})
	return err == nil, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, _ dto.UsuarioFilter) ([]model.Usuario, int64, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if !u.Borrado {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	actual, ok := r.usuarios[u.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	cp.Roles = actual.Roles
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) ReemplazarRoles(_ context.Context, u *model.Usuario, roles []model.Rol) error {
	actual, ok := r.usuarios[u.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	actual.Roles = roles
	u.Roles = roles
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Borrado = true
	}
	return nil
}

func (r *stubUsuarioRepo) LimpiarTokensVencidos(_ context.Context, limite time.Time) (int64, error) {
	var n int64
	for _, u := range r.usuarios {
		if u.TokenReset != nil && (u.FechaTokenReset == nil || u.FechaTokenReset.Before(limite)) {
			u.TokenReset, u.FechaTokenReset = nil, nil
			n++
		}
	}
	return n, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubRolRepo struct{ roles []model.Rol }

func newStubRolRepo() *stubRolRepo {
	roles := model.RolesIniciales()
	for i := range roles {
		roles[i].ID = uuid.New()
	}
	return &stubRolRepo{roles: roles}
}

func (r *stubRolRepo) List(_ context.Context) ([]model.Rol, error) { return r.roles, nil }

func (r *stubRolRepo) FindByNombres(_ context.Context, nombres []string) ([]model.Rol, error) {
	var out []model.Rol
	for _, rol := range r.roles {
		for _, n := range nombres {
			if rol.Nombre == n {
				out = append(out, rol)
			}
		}
	}
	return out, nil
}

var _ repository.RolRepository = (*stubRolRepo)(nil)

// stubNotificador records queued e-mails.
type stubNotificador struct {
	mu       sync.Mutex
	mensajes []infra.Mensaje
}

func (n *stubNotificador) EnqueueEmail(_ context.Context, msg infra.Mensaje) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mensajes = append(n.mensajes, msg)
	return nil
}

func (n *stubNotificador) ultimo() infra.Mensaje {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mensajes[len(n.mensajes)-1]
}
