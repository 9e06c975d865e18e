// plot-batch generates one figure per token and plot variant by
// invoking the external plot entry point (or rendering natively).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goalflow-lab/navrunner/internal/cachedb"
	"github.com/goalflow-lab/navrunner/internal/figures"
	"github.com/goalflow-lab/navrunner/internal/launch"
	"github.com/goalflow-lab/navrunner/internal/monitoring"
	"github.com/goalflow-lab/navrunner/internal/runconfig"
	"github.com/goalflow-lab/navrunner/internal/tokens"
	"github.com/goalflow-lab/navrunner/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to run config JSON (required)")
	tokenList   = flag.String("tokens", "", "Comma-separated scene tokens")
	tokenFile   = flag.String("tokens-file", "", "File with one scene token per line")
	variantList = flag.String("variants", "combined", "Comma-separated plot variants: baseline,barrier,combined or 'all'")
	native      = flag.Bool("native", false, "Render figures in-process instead of invoking the external plotter")
	dryRun      = flag.Bool("dry-run", false, "Print invocations without executing them")
	verbose     = flag.Bool("verbose", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

type debugLogger struct{}

func (debugLogger) Debugf(format string, args ...interface{}) {
	log.Printf("[debug] "+format, args...)
}

func parseVariants(s string) ([]figures.Variant, error) {
	if s == "all" {
		return []figures.Variant{figures.VariantBaseline, figures.VariantBarrier, figures.VariantCombined}, nil
	}
	var out []figures.Variant
	for _, name := range strings.Split(s, ",") {
		switch figures.Variant(strings.TrimSpace(name)) {
		case figures.VariantBaseline:
			out = append(out, figures.VariantBaseline)
		case figures.VariantBarrier:
			out = append(out, figures.VariantBarrier)
		case figures.VariantCombined:
			out = append(out, figures.VariantCombined)
		case "":
		default:
			return nil, fmt.Errorf("unknown variant %q", name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no variants selected")
	}
	return out, nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("plot-batch"))
		return
	}
	if *configPath == "" {
		log.Fatal("-config is required")
	}
	if !*verbose {
		monitoring.SetLogger(nil)
	}

	cfg, err := runconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var toks tokens.List
	switch {
	case *tokenFile != "":
		toks, err = tokens.Load(*tokenFile)
		if err != nil {
			log.Fatalf("failed to load tokens: %v", err)
		}
	case *tokenList != "":
		toks = tokens.Parse(*tokenList)
	default:
		log.Fatal("either -tokens or -tokens-file is required")
	}

	variants, err := parseVariants(*variantList)
	if err != nil {
		log.Fatal(err)
	}

	runner := launch.NewRunner(*dryRun)
	if *verbose {
		runner.SetLogger(debugLogger{})
	}

	batch := &figures.Batch{
		Tokens:   toks,
		Config:   cfg,
		Variants: variants,
		Runner:   runner,
		Out:      os.Stdout,
		Native:   *native,
	}

	var index *cachedb.DB
	var runID string
	if path := cfg.GetRunIndexPath(); path != "" && !*dryRun {
		index, err = cachedb.Open(path)
		if err != nil {
			log.Fatalf("failed to open run index: %v", err)
		}
		defer index.Close()
		runID, err = index.RecordRunStart(cachedb.RunIdentity{
			Kind:           cachedb.KindFigures,
			ExperimentName: cfg.GetExperimentName(),
			Agent:          cfg.GetAgent(),
			Split:          cfg.GetSplit(),
			SceneFilter:    cfg.GetSceneFilter(),
		})
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
	}

	summary, err := batch.Run()
	if index != nil {
		note := "no figures"
		if summary != nil {
			note = fmt.Sprintf("%d figures", summary.Figures)
		}
		if err != nil {
			note = err.Error()
		}
		if ferr := index.RecordRunFinish(runID, err == nil, note); ferr != nil {
			log.Printf("failed to record run finish: %v", ferr)
		}
	}
	if err != nil {
		log.Fatalf("batch aborted: %v", err)
	}
}
