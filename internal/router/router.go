package router

import (
	"time"

	"github.com/comercial2hermanos/sistema-c2h/internal/config"
	"github.com/comercial2hermanos/sistema-c2h/internal/handler"
	"github.com/comercial2hermanos/sistema-c2h/internal/middleware"
	"github.com/comercial2hermanos/sistema-c2h/internal/repository"
	"github.com/comercial2hermanos/sistema-c2h/internal/service"
	"github.com/comercial2hermanos/sistema-c2h/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	abonoRepo := repository.NewAbonoRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	cierreRepo := repository.NewCierreRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	clienteSvc := service.NewClienteService(clienteRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, movimientoStockRepo, dispatcher)
	compraSvc := service.NewCompraService(compraRepo, productoRepo, movimientoStockRepo, historialPrecioRepo)
	creditoSvc := service.NewCreditoService(ventaRepo, abonoRepo)
	gastoSvc := service.NewGastoService(gastoRepo)
	cierreSvc := service.NewCierreService(cierreRepo, ventaRepo, abonoRepo, gastoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	creditosH := handler.NewCreditosHandler(creditoSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)
	cajaH := handler.NewCajaHandler(cierreSvc)
	inventarioH := handler.NewInventarioHandler(movimientoStockRepo, historialPrecioRepo)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/precio/:codigo", consultaH.GetPrecioPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, administrador — declared per-endpoint
		cajeros := middleware.RequireRole("cajero", "administrador")
		admin := middleware.RequireRole("administrador")

		v1.POST("/ventas", cajeros, ventasH.RegistrarVenta)
		v1.GET("/ventas", cajeros, ventasH.ListarVentas)
		v1.GET("/ventas/reporte", admin, ventasH.ReporteVentas)
		v1.GET("/ventas/:id", cajeros, ventasH.ObtenerVenta)

		creditos := v1.Group("/creditos", cajeros)
		{
			creditos.POST("/abonos", creditosH.RegistrarAbono)
			creditos.GET("/cuentas", creditosH.CuentasPorCobrar)
			creditos.GET("/:id/saldo", creditosH.SaldoPendiente)
			creditos.GET("/:id/abonos", creditosH.ListarAbonos)
		}

		compras := v1.Group("/compras", admin)
		{
			compras.POST("", comprasH.RegistrarCompra)
			compras.GET("", comprasH.ListarCompras)
			compras.GET("/:id", comprasH.ObtenerCompra)
		}

		v1.POST("/gastos", cajeros, gastosH.RegistrarGasto)
		v1.GET("/gastos", cajeros, gastosH.ListarGastos)

		caja := v1.Group("/caja")
		{
			caja.GET("/cierre", cajeros, cajaH.PreviewCierre)
			caja.POST("/cierre", cajeros, cajaH.Cerrar)
			caja.GET("/cierres", cajeros, cajaH.ListarCierres)
			caja.GET("/cierres/:id", cajeros, cajaH.Desglose)
		}

		// Catalog — read for everyone, writes administrador only
		v1.GET("/productos", cajeros, productosH.Listar)
		v1.GET("/productos/:id", cajeros, productosH.Obtener)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		inv := v1.Group("/inventario", admin)
		{
			inv.GET("/alertas", productosH.AlertasStockBajo)
			inv.GET("/valoracion", productosH.ValoracionInventario)
			inv.GET("/:id/movimientos", inventarioH.MovimientosProducto)
			inv.GET("/:id/historial-precios", inventarioH.HistorialPrecios)
		}

		v1.GET("/clientes", cajeros, clientesH.Listar)
		v1.GET("/clientes/:id", cajeros, clientesH.Obtener)
		v1.POST("/clientes", cajeros, clientesH.Crear)
		clientes := v1.Group("/clientes", admin)
		{
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	return r
}
