package router

import (
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/config"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/handler"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/infra"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/middleware"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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

	// ── Infrastructure ───────────────────────────────────────────────────────
	// Sin SMTP configurado el digest queda deshabilitado (mailer nil).
	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = infra.NewMailer(cfg)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	configRepo := repository.NewConfiguracionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	retry := service.RetryPolicy{
		Intentos: cfg.StoreRetries,
		Base:     time.Duration(cfg.StoreRetryMsBase) * time.Millisecond,
	}

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(productoRepo, historialRepo, retry)
	productoSvc := service.NewProductoService(productoRepo, historialRepo, rdb)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, configRepo, inventarioSvc, retry)
	compraSvc := service.NewCompraService(compraRepo, productoRepo, configRepo, inventarioSvc, retry)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	reporteSvc := service.NewReporteService(ventaRepo, productoRepo, mailer)
	consultaSvc := service.NewConsultaPreciosService(productoRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, ventaRepo, configRepo, cfg)
	comprasH := handler.NewComprasHandler(compraSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	consultaH := handler.NewConsultaPreciosHandler(consultaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check kiosk — no auth required
	r.GET("/v1/precio/:barcode", consultaH.GetPrecioPorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := []string{middleware.RolCajero, middleware.RolFarmaceutico, middleware.RolAdministrador}
	gestion := []string{middleware.RolFarmaceutico, middleware.RolAdministrador}

	v1 := r.Group("/v1", jwtMW)
	{
		// Ventas — cualquiera vende; solo gestión anula
		v1.POST("/ventas", middleware.RequireRole(todos...), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole(todos...), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole(todos...), ventasH.ObtenerPorID)
		v1.GET("/ventas/:id/ticket", middleware.RequireRole(todos...), ventasH.DescargarTicket)
		v1.DELETE("/ventas/:id", middleware.RequireRole(gestion...), ventasH.AnularVenta)

		// Productos — lectura para todos, escritura para gestión
		v1.GET("/productos", middleware.RequireRole(todos...), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole(todos...), productosH.ObtenerPorID)
		prods := v1.Group("/productos", middleware.RequireRole(gestion...))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Inventario — ledger y auditoría
		inv := v1.Group("/inventario", middleware.RequireRole(gestion...))
		{
			inv.POST("/movimientos", inventarioH.RegistrarMovimiento)
			inv.POST("/ajustes", inventarioH.AjustarInventario)
			inv.GET("/historial", inventarioH.ListarHistorial)
			inv.GET("/consistencia/:producto_id", inventarioH.VerificarConsistencia)
			inv.GET("/alertas", inventarioH.ObtenerAlertas)
			inv.GET("/tipos-movimiento", inventarioH.TiposMovimiento)
		}

		// Compras
		compras := v1.Group("/compras", middleware.RequireRole(gestion...))
		{
			compras.POST("", comprasH.RegistrarCompra)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.ObtenerPorID)
			compras.POST("/:id/recibir", comprasH.RecibirCompra)
			compras.DELETE("/:id", comprasH.AnularCompra)
		}

		// Catálogos
		cats := v1.Group("/categorias")
		{
			cats.GET("", middleware.RequireRole(todos...), categoriasH.Listar)
			cats.POST("", middleware.RequireRole(gestion...), categoriasH.Crear)
			cats.PUT("/:id", middleware.RequireRole(gestion...), categoriasH.Actualizar)
			cats.DELETE("/:id", middleware.RequireRole(gestion...), categoriasH.Desactivar)
		}

		prov := v1.Group("/proveedores", middleware.RequireRole(gestion...))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Desactivar)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole(todos...))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.GET("/dni/:dni", clientesH.BuscarPorDNI)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", middleware.RequireRole(gestion...), clientesH.Desactivar)
		}

		// Reportes
		reportes := v1.Group("/reportes", middleware.RequireRole(gestion...))
		{
			reportes.GET("/ventas", reportesH.EstadisticasVentas)
			reportes.GET("/inventario", reportesH.EstadisticasInventario)
			reportes.GET("/por-vencer", reportesH.ProductosPorVencer)
			reportes.POST("/stock-bajo/digest", middleware.RequireRole(middleware.RolAdministrador), reportesH.EnviarDigestStockBajo)
		}

		// Usuarios — administrador only
		usuarios := v1.Group("/usuarios", middleware.RequireRole(middleware.RolAdministrador))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — disabled in production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
