package router

import (
	"time"

	_ "dscatalog/docs"
	"dscatalog/internal/config"
	"dscatalog/internal/handler"
	"dscatalog/internal/infra"
	"dscatalog/internal/middleware"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← UnitOfWork/Repositories ← DB, ProductCache ← Redis.
// rdb may be nil, which disables the product cache.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	uow := repository.NewUnitOfWork(db)
	productCache := infra.NewProductCache(rdb, cfg.ProductCacheTTL())

	// ── Services ─────────────────────────────────────────────────────────────
	categorySvc := service.NewCategoryService(uow, productCache)
	productSvc := service.NewProductService(uow, productCache)
	userSvc := service.NewUserService(uow)
	authSvc := service.NewAuthService(uow, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	usersH := handler.NewUsersHandler(userSvc)
	categoriasH := handler.NewCategoriasHandler(categorySvc)
	produtosH := handler.NewProdutosHandler(productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, productCache.Breaker()))

	r.POST("/auth/login", middleware.LoginRateLimiter(cfg.LoginRateLimit, time.Minute), authH.Login)

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	catalogWriter := middleware.RequireRole(model.RoleOperator, model.RoleAdmin)

	// dscatalog: public reads, operator/admin writes
	categories := r.Group("/categories")
	{
		categories.GET("", categoriesH.FindAll)
		categories.GET("/:id", categoriesH.FindByID)
		categories.POST("", jwtMW, catalogWriter, categoriesH.Insert)
		categories.PUT("/:id", jwtMW, catalogWriter, categoriesH.Update)
		categories.DELETE("/:id", jwtMW, catalogWriter, categoriesH.Delete)
	}

	products := r.Group("/products")
	{
		products.GET("", productsH.FindAll)
		products.GET("/:id", productsH.FindByID)
		products.POST("", jwtMW, catalogWriter, productsH.Insert)
		products.PUT("/:id", jwtMW, catalogWriter, productsH.Update)
		products.DELETE("/:id", jwtMW, catalogWriter, productsH.Delete)
	}

	users := r.Group("/users", jwtMW, middleware.RequireRole(model.RoleAdmin))
	{
		users.GET("", usersH.FindAll)
		users.GET("/:id", usersH.FindByID)
		users.POST("", usersH.Insert)
		users.PUT("/:id", usersH.Update)
		users.DELETE("/:id", usersH.Delete)
	}

	// catalogo: same tables, same guard on writes
	categorias := r.Group("/categorias")
	{
		categorias.GET("", categoriasH.Listar)
		categorias.GET("/:id", categoriasH.BuscarPorID)
		categorias.POST("", jwtMW, catalogWriter, categoriasH.Criar)
		categorias.PUT("/:id", jwtMW, catalogWriter, categoriasH.Atualizar)
		categorias.DELETE("/:id", jwtMW, catalogWriter, categoriasH.Remover)
	}

	produtos := r.Group("/produtos")
	{
		produtos.GET("", produtosH.Listar)
		produtos.GET("/:id", produtosH.BuscarPorID)
		produtos.POST("", jwtMW, catalogWriter, produtosH.Criar)
		produtos.PUT("/:id", jwtMW, catalogWriter, produtosH.Atualizar)
		produtos.DELETE("/:id", jwtMW, catalogWriter, produtosH.Remover)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
