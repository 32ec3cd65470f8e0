// Command morphokit-server serves morphology analysis results over HTTP for
// plotting and tabulation frontends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/morphokit/morphokit/internal/constants"
	"github.com/morphokit/morphokit/internal/database"
	"github.com/morphokit/morphokit/internal/log"
	"github.com/morphokit/morphokit/internal/server"
	"github.com/morphokit/morphokit/pkg/config"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "Config file (.yaml) or config database (.db)")
		debug   = flag.Bool("debug", false, "Enable debug logging")
		version = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("morphokit-server", constants.Version)
		return
	}

	if *cfgPath == "" {
		fmt.Fprintln(os.Stderr, "usage: morphokit-server -config <config.yaml>")
		os.Exit(2)
	}

	provider, err := openConfigProvider(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open config:", err)
		os.Exit(1)
	}
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := log.Init(*debug || cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *database.Client
	if cfg.Storage.ResultsDB != "" {
		store, err = database.NewClient(cfg.Storage.ResultsDB, log.GetSugaredLogger())
		if err != nil {
			log.Fatalf("failed to open results database: %v", err)
		}
		defer store.Close()
	}

	var wg sync.WaitGroup
	ctrl, err := server.NewController(ctx, &wg, cfg.Server, cfg.Analysis, store, log.GetSugaredLogger())
	if err != nil {
		log.Fatalf("failed to create results server: %v", err)
	}
	if err := ctrl.StartController(); err != nil {
		log.Fatalf("failed to start results server: %v", err)
	}

	<-ctx.Done()
	log.Info("shutting down")
	wg.Wait()
}

func openConfigProvider(path string) (config.ConfigProvider, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return config.NewYAMLProvider(path), nil
	}
	return config.NewSQLiteProvider(path)
}
