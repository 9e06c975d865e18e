// compare-results aligns two per-token result CSVs and reports where
// the new run beats the base run on a chosen metric.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goalflow-lab/navrunner/internal/fsutil"
	"github.com/goalflow-lab/navrunner/internal/results"
	"github.com/goalflow-lab/navrunner/internal/version"
)

var (
	metric        = flag.String("metric", "", "Metric column to compare (default: first numeric column common to both files)")
	lowerIsBetter = flag.Bool("lower-is-better", false, "Treat smaller metric values as better")
	topK          = flag.Int("topk", 10, "Number of most improved/regressed tokens to list")
	diffOut       = flag.String("out", "", "Diff CSV output path (default compare_<metric>.csv)")
	htmlOut       = flag.String("html", "", "Optional HTML report output path")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] base.csv new.csv\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("compare-results"))
		return
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	fs := fsutil.OSFileSystem{}

	base, err := results.Load(fs, flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to load base results: %v", err)
	}
	newSet, err := results.Load(fs, flag.Arg(1))
	if err != nil {
		log.Fatalf("failed to load new results: %v", err)
	}

	cmp, err := results.Compare(base, newSet, *metric, *lowerIsBetter)
	if err != nil {
		log.Fatalf("comparison failed: %v", err)
	}

	cmp.WriteSummary(os.Stdout, *topK)

	out := *diffOut
	if out == "" {
		out = fmt.Sprintf("compare_%s.csv", cmp.Metric)
	}
	if err := cmp.WriteDiffCSV(fs, out); err != nil {
		log.Fatalf("failed to write diff CSV: %v", err)
	}
	fmt.Printf("\nWrote per-token diffs to %s\n", out)

	if *htmlOut != "" {
		if err := cmp.WriteHTMLReport(fs, *htmlOut); err != nil {
			log.Fatalf("failed to write HTML report: %v", err)
		}
		fmt.Printf("Wrote HTML report to %s\n", *htmlOut)
	}
}
