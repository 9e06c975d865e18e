// pdm-score runs the external PDM scoring entry point with the
// configured overrides and optionally imports the produced result CSV
// into the local run index.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goalflow-lab/navrunner/internal/cachedb"
	"github.com/goalflow-lab/navrunner/internal/fsutil"
	"github.com/goalflow-lab/navrunner/internal/launch"
	"github.com/goalflow-lab/navrunner/internal/monitoring"
	"github.com/goalflow-lab/navrunner/internal/results"
	"github.com/goalflow-lab/navrunner/internal/runconfig"
	"github.com/goalflow-lab/navrunner/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to run config JSON (required)")
	resultsCSV  = flag.String("results", "", "Result CSV written by the scorer, imported into the run index after a successful run")
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
		fmt.Println(version.String("pdm-score"))
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
		Args:    append([]string{cfg.ScriptPath(runconfig.PDMScoreScript)}, cfg.ScoreOverrides().Args()...),
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
			Kind:           cachedb.KindScore,
			ExperimentName: cfg.GetExperimentName(),
			Agent:          cfg.GetAgent(),
			Split:          cfg.GetSplit(),
			SceneFilter:    cfg.GetSceneFilter(),
		})
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
	}

	fmt.Printf("Scoring %s (%s, %s)\n", cfg.GetExperimentName(), cfg.GetAgent(), cfg.GetSplit())
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
		log.Fatalf("scoring failed: %v", err)
	}

	if *resultsCSV != "" && index != nil {
		rs, err := results.Load(fsutil.OSFileSystem{}, *resultsCSV)
		if err != nil {
			log.Fatalf("failed to load results: %v", err)
		}
		count, err := index.ImportScores(runID, rs)
		if err != nil {
			log.Fatalf("failed to import scores: %v", err)
		}
		fmt.Printf("Imported %d scores for %d tokens\n", count, len(rs.Tokens))
	}
}
