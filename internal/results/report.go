package results

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/goalflow-lab/navrunner/internal/fsutil"
)

// WriteHTMLReport renders the per-token diffs as an HTML bar chart for
// quick inspection in a browser. Same data as the diff CSV.
func (c *Comparison) WriteHTMLReport(fs fsutil.FileSystem, path string) error {
	x := make([]string, 0, len(c.Rows))
	y := make([]opts.BarData, 0, len(c.Rows))
	for _, row := range c.Rows {
		x = append(x, row.Token)
		y = append(y, opts.BarData{Value: row.Diff})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Result comparison", Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Per-token %s diff (new - base)", c.Metric),
			Subtitle: fmt.Sprintf("%d tokens, %d improved, %d regressed", c.Summary.Total, c.Summary.Improved, c.Summary.Regressed),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "token"}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.Metric + " diff"}),
	)
	bar.SetXAxis(x).AddSeries("diff", y)

	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
