// Package server exposes analysis results over HTTP for plotting and
// tabulation frontends. It serves JSON by default and MessagePack on request.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/morphokit/morphokit/internal/analysis"
	"github.com/morphokit/morphokit/internal/database"
	"github.com/morphokit/morphokit/internal/log"
	"github.com/morphokit/morphokit/pkg/config"
	"go.uber.org/zap"
)

// Controller represents the analysis results server
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	cfg      config.ServerData
	defaults config.AnalysisData
	analyzer *analysis.Analyzer
	store    *database.Client // nil when no results DB is configured
	Server   http.Server
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new results server controller. store may be nil to
// run without persistence.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg config.ServerData, defaults config.AnalysisData, store *database.Client, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("no listen address configured for the results server")
	}
	if cfg.MorphologyDir == "" {
		return nil, fmt.Errorf("no morphology directory configured for the results server")
	}

	ctrl := &Controller{
		ctx:      ctx,
		wg:       wg,
		cfg:      cfg,
		defaults: defaults,
		analyzer: analysis.NewAnalyzer(logger),
		store:    store,
		logger:   logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	router := mux.NewRouter()
	router.Use(log.HTTPRequestLogger(logger))
	router.HandleFunc("/health", ctrl.handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/kernels", ctrl.handlers.ListKernels).Methods(http.MethodGet)
	router.HandleFunc("/api/morphologies", ctrl.handlers.ListMorphologies).Methods(http.MethodGet)
	router.HandleFunc("/api/analyze", ctrl.handlers.Analyze).Methods(http.MethodPost)
	router.HandleFunc("/api/runs", ctrl.handlers.ListRuns).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{id}", ctrl.handlers.GetRun).Methods(http.MethodGet)

	ctrl.Server = http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return ctrl, nil
}

// StartController starts the HTTP server and shuts it down when the context
// is cancelled.
func (c *Controller) StartController() error {
	c.logger.Infof("starting analysis results server on %s", c.cfg.ListenAddr)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("results server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("results server shutdown error: %v", err)
		}
	}()

	return nil
}
