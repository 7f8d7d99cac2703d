package router

import (
	"time"

	"ledgerai/internal/assistant"
	"ledgerai/internal/config"
	"ledgerai/internal/handler"
	"ledgerai/internal/middleware"
	"ledgerai/internal/repository"
	"ledgerai/internal/service"
	"ledgerai/internal/worker"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries the externally constructed pieces the router wires together.
type Deps struct {
	DB        *gorm.DB
	RDB       *redis.Client
	Extractor assistant.Extractor
}

// New wires all dependencies and returns a configured Gin engine plus the
// insight worker for the worker pool.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) (*gin.Engine, *worker.InsightWorker) {
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
	customerRepo := repository.NewCustomerRepository(deps.DB)
	productRepo := repository.NewProductRepository(deps.DB)
	txRepo := repository.NewTransactionRepository(deps.DB)
	chatRepo := repository.NewChatRepository(deps.DB)
	profileRepo := repository.NewProfileRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(deps.RDB)
	locker := redislock.New(deps.RDB)

	insightSvc := service.NewInsightService(customerRepo, productRepo, txRepo, deps.RDB)
	customerSvc := service.NewCustomerService(customerRepo, txRepo, dispatcher)
	productSvc := service.NewProductService(productRepo, customerRepo, txRepo, dispatcher)
	txSvc := service.NewTransactionService(txRepo, customerRepo, productRepo, dispatcher)
	chatSvc := service.NewChatService(
		chatRepo, customerRepo, productRepo, txRepo,
		deps.Extractor, locker, dispatcher,
		time.Duration(cfg.AssistantTimeoutSeconds)*time.Second,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	chatH := handler.NewChatHandler(chatSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	productsH := handler.NewProductsHandler(productSvc)
	transactionsH := handler.NewTransactionsHandler(txSvc)
	profileH := handler.NewProfileHandler(profileRepo)
	dashboardH := handler.NewDashboardHandler(insightSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(deps.DB, deps.RDB))

	v1 := r.Group("/v1")
	{
		chat := v1.Group("/chat/sessions")
		{
			chat.POST("", chatH.CreateSession)
			chat.GET("", chatH.ListSessions)
			chat.GET("/:id", chatH.GetSession)
			chat.POST("/:id/messages", middleware.ChatRateLimiter(), chatH.SendMessage)
			chat.POST("/:id/messages/:position/confirm", chatH.ConfirmDraft)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
			customers.POST("/:id/payments", customersH.RecordPayment)
			customers.GET("/:id/statement", customersH.Statement)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.PATCH("/:id/stock", productsH.AdjustStock)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionsH.Create)
			transactions.GET("", transactionsH.List)
			transactions.PUT("/:id", transactionsH.Update)
			transactions.DELETE("/:id", transactionsH.Delete)
		}

		v1.GET("/profile", profileH.Get)
		v1.PUT("/profile", profileH.Update)

		v1.GET("/dashboard/insights", dashboardH.Insights)
	}

	insightWorker := worker.NewInsightWorker(insightSvc)
	return r, insightWorker
}
