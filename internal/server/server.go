package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stormline/roofcrm/internal/config"
	"github.com/stormline/roofcrm/internal/customer"
	customerdomain "github.com/stormline/roofcrm/internal/customer/domain"
	"github.com/stormline/roofcrm/internal/llm"
	"github.com/stormline/roofcrm/internal/observability"
	obsmiddleware "github.com/stormline/roofcrm/internal/observability/logger"
	obsmetrics "github.com/stormline/roofcrm/internal/observability/metrics"
	obstracing "github.com/stormline/roofcrm/internal/observability/tracing"
	"github.com/stormline/roofcrm/internal/proposal"
	proposaldomain "github.com/stormline/roofcrm/internal/proposal/domain"
	"github.com/stormline/roofcrm/internal/providers"
	"github.com/stormline/roofcrm/internal/providers/pdf"
	"github.com/stormline/roofcrm/internal/ratelimit"
	"github.com/stormline/roofcrm/internal/reference"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	reference.Module,
	llm.Module,
	customer.Module,
	proposal.Module,
	providers.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
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

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	proposalSvc proposaldomain.Service
	customerSvc customerdomain.Service
	pdfProvider pdf.Provider
	obsMetrics  *obsmetrics.Metrics
	genLimiter  *ratelimit.GenerationLimiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	ProposalSvc proposaldomain.Service
	CustomerSvc customerdomain.Service
	PDFProvider pdf.Provider
	ObsMetrics  *obsmetrics.Metrics          `optional:"true"`
	GenLimiter  *ratelimit.GenerationLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		proposalSvc: p.ProposalSvc,
		customerSvc: p.CustomerSvc,
		pdfProvider: p.PDFProvider,
		obsMetrics:  p.ObsMetrics,
		genLimiter:  p.GenLimiter,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Proposals --------
	api.POST("/proposals/generate", s.GenerationRateLimit(), s.GenerateProposal)
	api.GET("/proposals/:id", s.GetProposalByID)
	api.GET("/proposals/:id/pdf", s.DownloadProposalPDF)

	// -------- Customers --------
	api.GET("/customers/:id", s.GetCustomerByID)
	api.GET("/customers/:id/proposals", s.ListCustomerProposals)

	// -------- Pricing --------
	api.GET("/pricing/options", s.ListPricingOptions)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
