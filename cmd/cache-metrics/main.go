// cache-metrics runs the external metric caching entry point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goalflow-lab/navrunner/internal/cachedb"
	"github.com/goalflow-lab/navrunner/internal/launch"
	"github.com/goalflow-lab/navrunner/internal/monitoring"
	"github.com/goalflow-lab/navrunner/internal/runconfig"
	"github.com/goalflow-lab/navrunner/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to run config JSON (required)")
	dryRun      = flag.Bool("dry-run", false, "Print the invocation without executing it")
	verbose     = flag.Bool("verbose", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

type debugLogger struct{}

func (debugLogger) Debugf(format string, args ...interface{}) {
	log.Printf("[debug] "+format, args...)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("cache-metrics"))
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

	runner := launch.NewRunner(*dryRun)
	if *verbose {
		runner.SetLogger(debugLogger{})
	}

	inv := launch.Invocation{
		Program: cfg.GetPython(),
		Args:    append([]string{cfg.ScriptPath(runconfig.MetricCacheScript)}, cfg.MetricCacheOverrides().Args()...),
		Dir:     cfg.GetDevkitRoot(),
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
			Kind:           cachedb.KindMetricCache,
			ExperimentName: cfg.GetExperimentName(),
			Split:          cfg.GetSplit(),
			SceneFilter:    cfg.GetSceneFilter(),
		})
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
	}

	fmt.Printf("Caching metrics to %s (%s/%s)\n", cfg.GetMetricCachePath(), cfg.GetSceneFilter(), cfg.GetSplit())
	output, err := runner.Run(inv)
	os.Stdout.WriteString(output)

	if index != nil {
		note := "ok"
		if err != nil {
			note = err.Error()
		}
		if ferr := index.RecordRunFinish(runID, err == nil, note); ferr != nil {
			log.Printf("failed to record run finish: %v", ferr)
		}
	}
	if err != nil {
		log.Fatalf("metric caching failed: %v", err)
	}
}
