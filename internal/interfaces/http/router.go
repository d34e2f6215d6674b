package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	appgateway "tably/internal/application/billing/gateway"
	"tably/internal/application/billing/usecases"
	"tably/internal/domain/billing"
	"tably/internal/infrastructure/auth"
	"tably/internal/infrastructure/cache"
	"tably/internal/infrastructure/config"
	"tably/internal/infrastructure/email"
	infragateway "tably/internal/infrastructure/gateway"
	"tably/internal/infrastructure/ratelimit"
	"tably/internal/infrastructure/repository"
	"tably/internal/interfaces/http/handlers"
	"tably/internal/interfaces/http/middleware"
	"tably/internal/shared/logger"

	_ "tably/docs"
)

// Router wires the HTTP surface: the authenticated subscription API and the
// unauthenticated, signature-verified webhook endpoint.
type Router struct {
	engine              *gin.Engine
	subscriptionHandler *handlers.SubscriptionHandler
	planHandler         *handlers.PlanHandler
	webhookHandler      *handlers.WebhookHandler
	authMiddleware      *middleware.AuthMiddleware
	rateLimiter         ratelimit.Limiter
	logger              logger.Interface
}

// NewRouter builds the router and all its dependencies.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()
	// The webhook contract distinguishes wrong-method from wrong-path.
	engine.HandleMethodNotAllowed = true

	plans := make([]billing.Plan, 0, len(cfg.Subscription.Plans))
	for _, p := range cfg.Subscription.Plans {
		plans = append(plans, billing.Plan{
			ID:          p.ID,
			Name:        p.Name,
			GatewayCode: p.GatewayCode,
			PeriodDays:  p.PeriodDays,
		})
	}
	catalog, err := billing.NewPlanCatalog(plans)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan catalog: %w", err)
	}

	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	tombstones := cache.NewSubscriptionTombstoneStore(redisClient)

	var paymentGateway appgateway.PaymentGateway = infragateway.NewRESTGateway(&cfg.Gateway, log)
	if cfg.Server.Mode == "debug" && cfg.Gateway.KeyID == "" {
		// Debug runs without gateway credentials fall back to the in-memory
		// gateway so the API stays usable against local stacks.
		log.Warnw("gateway credentials not configured; using mock payment gateway")
		paymentGateway = appgateway.NewMockGateway(true)
	}

	verifier, err := infragateway.NewSignatureVerifier(cfg.Gateway.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize webhook verifier: %w", err)
	}

	createUC := usecases.NewCreateSubscriptionUseCase(subscriptionRepo, catalog, paymentGateway, log)
	getUC := usecases.NewGetSubscriptionUseCase(subscriptionRepo, log)
	cancelUC := usecases.NewCancelSubscriptionUseCase(subscriptionRepo, paymentGateway, log)
	abortUC := usecases.NewAbortSubscriptionUseCase(subscriptionRepo, paymentGateway, tombstones, log)

	var processOpts []usecases.ProcessWebhookEventOption
	if cfg.Email.BillingAlertsAddress != "" {
		processOpts = append(processOpts, usecases.WithBillingNotifier(email.NewSMTPBillingNotifier(&cfg.Email)))
	}
	processUC := usecases.NewProcessWebhookEventUseCase(subscriptionRepo, tombstones, log, processOpts...)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)

	return &Router{
		engine:              engine,
		subscriptionHandler: handlers.NewSubscriptionHandler(createUC, getUC, cancelUC, abortUC, cfg.Gateway.KeyID, log),
		planHandler:         handlers.NewPlanHandler(catalog),
		webhookHandler:      handlers.NewWebhookHandler(verifier, infragateway.NewWebhookDecoder(), processUC, log),
		authMiddleware:      middleware.NewAuthMiddleware(jwtService, log),
		rateLimiter:         ratelimit.NewRedisLimiter(redisClient),
		logger:              log,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Webhook deliveries authenticate with a body signature, not a user
	// token, so the route stays outside the auth group.
	r.engine.POST("/webhooks/gateway",
		middleware.RateLimit(r.rateLimiter, ratelimit.Config{RequestsPerMinute: 300}, r.logger),
		r.webhookHandler.HandleWebhook)

	api := r.engine.Group("/api")
	api.Use(middleware.RateLimit(r.rateLimiter, ratelimit.Config{RequestsPerMinute: 100}, r.logger))
	{
		api.GET("/plans", r.planHandler.ListPlans)

		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(r.authMiddleware.RequireAuth())
		{
			subscriptions.POST("", r.subscriptionHandler.CreateSubscription)
			subscriptions.GET("/current", r.subscriptionHandler.GetSubscription)
			subscriptions.DELETE("/current", r.subscriptionHandler.CancelSubscription)
			subscriptions.POST("/current/abort", r.subscriptionHandler.AbortSubscription)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
