package router

import (
	"time"

	"github.com/martingh15/proyecto-backend/internal/config"
	"github.com/martingh15/proyecto-backend/internal/handler"
	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/middleware"
	"github.com/martingh15/proyecto-backend/internal/model"
	"github.com/martingh15/proyecto-backend/internal/repository"
	"github.com/martingh15/proyecto-backend/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the collaborators built by the composition root.
type Deps struct {
	// Notificador queues outgoing e-mail; nil skips sending.
	Notificador service.Notificador
	// SMTP is the mail relay breaker, reported by /health.
	SMTP *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.NoRoute(middleware.NoEncontrado())

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	rolRepo := repository.NewRolRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	ingresoRepo := repository.NewIngresoRepository(db)
	reemplazoRepo := repository.NewReemplazoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, rolRepo, cfg, deps.Notificador)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, rolRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, cache)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, historialPrecioRepo, movimientoStockRepo, pedidoRepo, cache)
	stockSvc := service.NewStockService(ingresoRepo, reemplazoRepo, movimientoStockRepo, productoRepo, historialPrecioRepo, cache)
	pedidoSvc := service.NewPedidoService(pedidoRepo, ventaRepo, productoRepo, movimientoStockRepo, cache, cfg.NombreLocal)
	ventaSvc := service.NewVentaService(ventaRepo, pedidoRepo, productoRepo, movimientoStockRepo, cache, cfg.NombreLocal)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	catalogoH := handler.NewCatalogoHandler(productoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	stockH := handler.NewStockHandler(stockSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, deps.SMTP))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.AuthRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/registro", middleware.AuthRateLimiter(), authH.Registro)
		auth.POST("/activar/:token", authH.Activar)
		auth.POST("/olvido-password", middleware.AuthRateLimiter(), authH.OlvidoPassword)
		auth.POST("/validar-token-password/:token", authH.ValidarTokenPassword)
		auth.POST("/cambiar-password", authH.CambiarPassword)
	}

	// Catalog, no auth required
	r.GET("/v1/categorias", categoriasH.Listar)
	r.GET("/v1/categorias/:id", categoriasH.Obtener)
	r.GET("/v1/productos", catalogoH.Listar)
	r.GET("/v1/productos/:id", catalogoH.Obtener)

	admin := middleware.RequireRole(model.RolAdministrador)
	elevado := middleware.RequireRole(model.RolVendedor, model.RolAdministrador)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/usuarios/yo", usuariosH.Yo)
		v1.PUT("/usuarios/:id", usuariosH.Actualizar) // self or administrador, checked in service
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:id", usuariosH.Obtener)
			usuarios.DELETE("/:id", usuariosH.Borrar)
		}
		v1.GET("/roles", admin, usuariosH.ListarRoles)

		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Borrar)
		}

		v1.GET("/productos/admin", productosH.Listar)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Borrar)
			prods.GET("/:id/precios", productosH.HistorialPrecios)
		}

		ingresos := v1.Group("/ingresos", admin)
		{
			ingresos.POST("", stockH.CrearIngreso)
			ingresos.GET("", stockH.ListarIngresos)
			ingresos.GET("/:id", stockH.ObtenerIngreso)
			ingresos.POST("/:id/anular", stockH.AnularIngreso)
		}
		reemplazos := v1.Group("/reemplazos", admin)
		{
			reemplazos.POST("", stockH.CrearReemplazo)
			reemplazos.GET("", stockH.ListarReemplazos)
			reemplazos.GET("/:id", stockH.ObtenerReemplazo)
			reemplazos.POST("/:id/anular", stockH.AnularReemplazo)
		}
		v1.GET("/movimientos", admin, stockH.ListarMovimientos)

		comensal := middleware.RequireRole(model.RolComensal)
		pedidos := v1.Group("/pedidos")
		{
			pedidos.GET("", comensal, pedidosH.Listar)
			pedidos.POST("", comensal, pedidosH.Guardar)
			pedidos.GET("/abierto", comensal, pedidosH.Abierto)
			pedidos.GET("/vendedor", elevado, pedidosH.ListarVendedor)
			pedidos.GET("/:id", pedidosH.Obtener) // owner or elevated, checked in service
			pedidos.PUT("/:id/cerrar", comensal, pedidosH.Cerrar)
			pedidos.POST("/:id/cancelar", pedidosH.Cancelar)
			pedidos.POST("/:id/entregar", elevado, pedidosH.Entregar)
			pedidos.POST("/:id/recibir", elevado, pedidosH.Entregar)
			pedidos.GET("/:id/comanda", elevado, pedidosH.Comanda)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", elevado, ventasH.RegistrarVenta)
			ventas.GET("", elevado, ventasH.ListarVentas)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.POST("/:id/anular", elevado, ventasH.AnularVenta)
			ventas.GET("/:id/ticket", ventasH.Ticket)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
