// Package figures runs batch figure generation over an ordered token
// list, one plot per token and variant.
package figures

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/goalflow-lab/navrunner/internal/fsutil"
	"github.com/goalflow-lab/navrunner/internal/launch"
	"github.com/goalflow-lab/navrunner/internal/monitoring"
	"github.com/goalflow-lab/navrunner/internal/render"
	"github.com/goalflow-lab/navrunner/internal/runconfig"
	"github.com/goalflow-lab/navrunner/internal/tokens"
	"github.com/goalflow-lab/navrunner/internal/trajectory"
)

// Variant selects which trajectory sources a figure overlays.
type Variant string

const (
	// VariantBaseline plots the primary trajectory source only.
	VariantBaseline Variant = "baseline"
	// VariantBarrier plots the barrier-filtered trajectory source only.
	VariantBarrier Variant = "barrier"
	// VariantCombined overlays both sources on one figure.
	VariantCombined Variant = "combined"
)

// Filename derives the output filename for the figure at 1-based
// position n. The position in the token list, not the token itself,
// determines the numbering.
func (v Variant) Filename(n int) string {
	switch v {
	case VariantBarrier:
		return fmt.Sprintf("fig_%d_bf.png", n)
	case VariantCombined:
		return fmt.Sprintf("fig_%d_combined.png", n)
	default:
		return fmt.Sprintf("fig_%d.png", n)
	}
}

// DefaultVariants is the enabled set when nothing is selected: combined
// figures only.
var DefaultVariants = []Variant{VariantCombined}

// Summary reports what a batch run produced.
type Summary struct {
	// Figures is the number of figures generated (invocations issued).
	Figures int
	// OutputDir is where the figures were written.
	OutputDir string
	// Files lists the produced figure files found in OutputDir.
	Files []string
}

// Batch generates figures for each token in order, strictly
// sequentially, aborting on the first failure.
type Batch struct {
	Tokens   tokens.List
	Config   *runconfig.RunConfig
	Variants []Variant
	Runner   *launch.Runner
	FS       fsutil.FileSystem
	Out      io.Writer

	// Native renders figures in-process instead of invoking the
	// external plot entry point.
	Native bool

	// RenderFunc is the native rendering hook; defaults to render.Save.
	RenderFunc func(base, second *trajectory.Trajectory, opts render.Options, path string) error

	// LoadFunc is the native trajectory loading hook; defaults to
	// trajectory.Load.
	LoadFunc func(dir, token string) (*trajectory.Trajectory, error)
}

// Run executes the batch. The output directory is created if missing;
// the first failing figure aborts the run with no cleanup of figures
// already written.
func (b *Batch) Run() (*Summary, error) {
	if len(b.Tokens) == 0 {
		return nil, fmt.Errorf("no tokens to plot")
	}

	fs := b.FS
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	variants := b.Variants
	if len(variants) == 0 {
		variants = DefaultVariants
	}
	out := b.Out
	if out == nil {
		out = io.Discard
	}

	outputDir := b.Config.GetOutputDir()
	if err := fs.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", outputDir, err)
	}

	for _, tok := range b.Tokens {
		if !tokens.LooksCanonical(tok) {
			monitoring.Logf("token %q does not look like a canonical scene token", tok)
		}
	}

	total := len(b.Tokens) * len(variants)
	summary := &Summary{OutputDir: outputDir}

	for i, tok := range b.Tokens {
		n := i + 1
		for _, variant := range variants {
			outPath := filepath.Join(outputDir, variant.Filename(n))
			fmt.Fprintf(out, "[%d/%d] token %s (%s) -> %s\n", summary.Figures+1, total, tok, variant, outPath)

			var err error
			if b.Native {
				err = b.renderNative(tok, variant, outPath)
			} else {
				_, err = b.Runner.Run(b.plotInvocation(tok, variant, outPath))
			}
			if err != nil {
				return summary, fmt.Errorf("figure %d (token %s, %s): %w", n, tok, variant, err)
			}
			summary.Figures++
		}
	}

	fmt.Fprintf(out, "Generated %d figures in %s\n", summary.Figures, outputDir)

	files, err := fs.Glob(filepath.Join(outputDir, "fig_*.png"))
	if err == nil {
		summary.Files = files
		for _, f := range files {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	return summary, nil
}

// plotInvocation builds the external plot call for one figure.
func (b *Batch) plotInvocation(tok string, variant Variant, outPath string) launch.Invocation {
	args := []string{
		b.Config.ScriptPath(runconfig.PlotScript),
		"--token", tok,
		"--data-path", b.Config.GetDataPath(),
		"--sensor-blobs", b.Config.GetSensorBlobsPath(),
	}

	switch variant {
	case VariantBarrier:
		args = append(args, "--trajs-dir", b.Config.GetTrajsDir2())
	case VariantCombined:
		args = append(args, "--trajs-dir", b.Config.GetTrajsDir())
		if dir2 := b.Config.GetTrajsDir2(); dir2 != "" {
			args = append(args, "--trajs-dir2", dir2)
		}
	default:
		args = append(args, "--trajs-dir", b.Config.GetTrajsDir())
	}

	args = append(args, "--out", outPath)

	return launch.Invocation{
		Program: b.Config.GetPython(),
		Args:    args,
		Dir:     b.Config.GetDevkitRoot(),
	}
}

// renderNative draws the figure in-process from the on-disk trajectory
// caches.
func (b *Batch) renderNative(tok string, variant Variant, outPath string) error {
	load := b.LoadFunc
	if load == nil {
		load = trajectory.Load
	}
	save := b.RenderFunc
	if save == nil {
		save = render.Save
	}

	baseDir := b.Config.GetTrajsDir()
	if variant == VariantBarrier {
		baseDir = b.Config.GetTrajsDir2()
	}

	base, err := load(baseDir, tok)
	if err != nil {
		return err
	}
	if base == nil {
		return fmt.Errorf("no trajectory for token %s under %s", tok, baseDir)
	}

	var second *trajectory.Trajectory
	if variant == VariantCombined {
		if dir2 := b.Config.GetTrajsDir2(); dir2 != "" {
			// A missing secondary trajectory drops the overlay rather
			// than failing, matching the external plot behavior.
			second, err = load(dir2, tok)
			if err != nil {
				return err
			}
		}
	}

	return save(base, second, render.Options{Title: tok}, outPath)
}
