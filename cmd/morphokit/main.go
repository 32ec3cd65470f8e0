// Command morphokit analyzes a neuronal morphology skeleton from an SWC file
// and prints (or stores) the aggregated per-arbor and morphology-level
// statistics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/morphokit/morphokit/internal/analysis"
	"github.com/morphokit/morphokit/internal/constants"
	"github.com/morphokit/morphokit/internal/database"
	"github.com/morphokit/morphokit/internal/log"
	"github.com/morphokit/morphokit/pkg/config"
	"github.com/morphokit/morphokit/pkg/swc"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to the SWC morphology file")
		cfgPath     = flag.String("config", "", "Optional config file (.yaml) or config database (.db)")
		kernels     = flag.String("kernels", "", "Comma-separated kernel names (default: all)")
		listKernels = flag.Bool("list-kernels", false, "List available analysis kernels and exit")
		parallel    = flag.Bool("parallel", false, "Analyze arbors concurrently")
		maxOrder    = flag.Int("max-order", 0, "Cap distribution histograms at this branching order (0 = inferred)")
		dbPath      = flag.String("db", "", "Optional SQLite results database to store the run in")
		jsonOut     = flag.Bool("json", false, "Emit the full result as JSON instead of a report")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		version     = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("morphokit", constants.Version)
		return
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer log.Sync()

	opts := analysis.Options{
		Parallel:              *parallel,
		MaximumBranchingOrder: *maxOrder,
	}

	if *cfgPath != "" {
		provider, err := openConfigProvider(*cfgPath)
		if err != nil {
			log.Fatalf("failed to open config: %v", err)
		}
		defer provider.Close()

		cfg, err := provider.LoadConfig()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		opts.Kernels = cfg.Analysis.Kernels
		if cfg.Analysis.Parallel {
			opts.Parallel = true
		}
		if opts.MaximumBranchingOrder == 0 {
			opts.MaximumBranchingOrder = cfg.Analysis.MaximumBranchingOrder
		}
		if *dbPath == "" {
			*dbPath = cfg.Storage.ResultsDB
		}
	}

	// Explicit kernel selection beats the config's
	if *kernels != "" {
		opts.Kernels = strings.Split(*kernels, ",")
		for i := range opts.Kernels {
			opts.Kernels[i] = strings.TrimSpace(opts.Kernels[i])
		}
	}

	analyzer := analysis.NewAnalyzer(log.GetSugaredLogger())

	if *listKernels {
		registry := analyzer.Registry()
		for _, name := range registry.Names() {
			kernel, err := registry.Get(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-24s %s (%s, %s)\n", kernel.Name, kernel.Description, kernel.Format, kernel.Aggregation)
		}
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: morphokit -file <morphology.swc> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	m, err := swc.ReadFile(*file)
	if err != nil {
		log.Fatalf("failed to read morphology: %v", err)
	}
	log.Debugf("loaded morphology %q: %d arbors", m.Label, len(m.Arbors()))

	result, err := analyzer.Analyze(m, opts)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if *dbPath != "" {
		store, err := database.NewClient(*dbPath, log.GetSugaredLogger())
		if err != nil {
			log.Fatalf("failed to open results database: %v", err)
		}
		defer store.Close()

		runID, err := store.SaveRun(result)
		if err != nil {
			log.Fatalf("failed to store analysis run: %v", err)
		}
		fmt.Fprintln(os.Stderr, "stored analysis run", runID)
	}

	if *jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			log.Fatalf("failed to encode result: %v", err)
		}
		return
	}

	printReport(result)
}

func openConfigProvider(path string) (config.ConfigProvider, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return config.NewYAMLProvider(path), nil
	}
	return config.NewSQLiteProvider(path)
}

func printReport(result *analysis.MorphologyAnalysisResult) {
	fmt.Printf("Morphology: %s\n\n", result.Label)

	for _, r := range result.Results {
		fmt.Printf("%s (%s)\n", r.Description, r.Kernel)
		if r.Apical != nil {
			printScalar("  apical dendrite", r.Format, r.Apical.Scalar)
		}
		for _, basal := range r.Basal {
			printScalar("  "+basal.Label, r.Format, basal.Scalar)
		}
		for _, axon := range r.Axon {
			printScalar("  "+axon.Label, r.Format, axon.Scalar)
		}
		printScalar("  morphology", r.Format, r.Morphology)
		fmt.Println()
	}
}

func printScalar(label string, format analysis.Format, s analysis.Scalar) {
	if !s.Defined {
		fmt.Printf("%-28s n/a\n", label)
		return
	}
	if format == analysis.FormatInt {
		fmt.Printf("%-28s %d\n", label, int64(s.Value))
		return
	}
	fmt.Printf("%-28s %.4f\n", label, s.Value)
}
