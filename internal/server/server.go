package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"gymhub/internal/auth"
	"gymhub/internal/config"
	"gymhub/internal/email"
	"gymhub/internal/ledger"
	"gymhub/internal/payment"
	"gymhub/internal/registry"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, emailService *email.Service, ledgerClient ledger.Client) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	registryService := registry.NewService(registry.NewRepository(db), emailService)
	registryHandler := registry.NewHandler(registryService)

	orders := payment.NewReservationStore(rdb, cfg.ReservationWindow)
	paymentHandler := payment.NewHandler(
		payment.NewVerifier(ledgerClient),
		payment.NewExecutor(ledgerClient),
		orders,
	)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	// Pure derivation, no caller state involved.
	router.GET("/address/:principal", paymentHandler.AddressFromPrincipal)

	protected := router.Group("/")
	protected.Use(auth.Middleware(cfg.JWTSecret))
	{
		protected.GET("/gyms", registryHandler.ListGyms)
		protected.GET("/gyms/:gymID", registryHandler.GetGym)
		protected.POST("/gyms", registryHandler.CreateGym)
		protected.PUT("/gyms/:gymID", registryHandler.UpdateGym)
		protected.DELETE("/gyms/:gymID", registryHandler.DeleteGym)

		protected.POST("/gyms/:gymID/members", registryHandler.RegisterMember)
		protected.GET("/gyms/:gymID/members", registryHandler.ListMembers)
		protected.POST("/gyms/:gymID/services", registryHandler.AddService)
		protected.GET("/gyms/:gymID/services", registryHandler.ListServices)

		protected.POST("/payments/verify", paymentHandler.VerifyPayment)
		protected.POST("/payments/transfer", paymentHandler.MakeTransfer)
		protected.POST("/payments/orders", paymentHandler.CreateOrder)
		protected.POST("/payments/orders/verify", paymentHandler.VerifyOrder)
	}

	return &Server{router: router}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
