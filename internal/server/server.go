package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/toolgram/premium/internal/config"
	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	"github.com/toolgram/premium/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	entitlements entitlementdomain.Service
	ingest       paymentdomain.IngestService
	limiter      *ratelimit.WebhookLimiter
}

type Params struct {
	fx.In

	Engine       *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Entitlements entitlementdomain.Service
	Ingest       paymentdomain.IngestService
	Limiter      *ratelimit.WebhookLimiter `optional:"true"`
}

func NewServer(p Params) *Server {
	return &Server{
		engine:       p.Engine,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		entitlements: p.Entitlements,
		ingest:       p.Ingest,
		limiter:      p.Limiter,
	}
}

func registerRoutes(s *Server) {
	s.engine.POST("/webhooks/razorpay", s.HandlePaymentWebhook)

	api := s.engine.Group("/api")
	api.POST("/orders", s.CreateOrder)
	api.GET("/premium/status", s.RequireEntitlement(), s.PremiumStatus)

	admin := s.engine.Group("/admin", s.RequireAdminSecret())
	admin.POST("/recompute", s.Recompute)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
