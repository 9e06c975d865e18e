// Package results compares per-token evaluation result CSVs and reports
// where one run outperforms another.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/goalflow-lab/navrunner/internal/fsutil"
)

// ErrNoMetric is returned when no metric column could be auto-detected.
var ErrNoMetric = errors.New("no candidate metric columns found")

// ResultSet holds one result CSV: token order is preserved because the
// comparison output follows the base file's ordering.
type ResultSet struct {
	Columns []string
	Tokens  []string
	rows    map[string]map[string]string
}

// Row returns the raw column values for a token, or nil.
func (rs *ResultSet) Row(token string) map[string]string {
	return rs.rows[token]
}

// Load reads a result CSV. A `token` column is required. When a `valid`
// column is present, rows whose value is not true are dropped.
func Load(fs fsutil.FileSystem, path string) (*ResultSet, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	r := csv.NewReader(strings.NewReader(string(data)))
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	header := records[0]
	tokenIdx, validIdx := -1, -1
	for i, col := range header {
		switch col {
		case "token":
			tokenIdx = i
		case "valid":
			validIdx = i
		}
	}
	if tokenIdx < 0 {
		return nil, fmt.Errorf("%s must contain a 'token' column", path)
	}

	rs := &ResultSet{
		Columns: header,
		rows:    make(map[string]map[string]string),
	}
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		if validIdx >= 0 && !isTrue(record[validIdx]) {
			continue
		}
		token := record[tokenIdx]
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		if _, seen := rs.rows[token]; !seen {
			rs.Tokens = append(rs.Tokens, token)
		}
		rs.rows[token] = row
	}

	return rs, nil
}

func isTrue(s string) bool {
	switch strings.TrimSpace(s) {
	case "True", "true", "TRUE", "1":
		return true
	}
	return false
}

// DiffRow is one aligned token with its metric values and difference.
// Diff is new minus base, sign-inverted for lower-is-better metrics, so
// positive always means the new run is better.
type DiffRow struct {
	Token string
	Base  float64
	New   float64
	Diff  float64
}

// Summary aggregates a comparison.
type Summary struct {
	Total     int
	Improved  int
	Regressed int
	Unchanged int

	BaseMean, BaseStd float64
	NewMean, NewStd   float64
	DiffMean, DiffStd float64
}

// Comparison is the outcome of aligning two result sets on one metric.
type Comparison struct {
	Metric  string
	Rows    []DiffRow
	Summary Summary
}

// Compare aligns base and new on token (inner join, base order) and
// diffs the given metric. An empty metric auto-detects the first
// numeric non-token column common to both sets.
func Compare(base, newSet *ResultSet, metric string, lowerIsBetter bool) (*Comparison, error) {
	if metric == "" {
		var err error
		metric, err = detectMetric(base, newSet)
		if err != nil {
			return nil, err
		}
	}
	if !hasColumn(base, metric) || !hasColumn(newSet, metric) {
		return nil, fmt.Errorf("metric column %q not present in both files", metric)
	}

	c := &Comparison{Metric: metric}
	var baseVals, newVals, diffs []float64

	for _, token := range base.Tokens {
		newRow := newSet.Row(token)
		if newRow == nil {
			continue
		}
		baseVal, errB := strconv.ParseFloat(base.Row(token)[metric], 64)
		newVal, errN := strconv.ParseFloat(newRow[metric], 64)
		if errB != nil || errN != nil {
			// Non-numeric cells are dropped, as in the CSV tooling this
			// replaces.
			continue
		}

		diff := newVal - baseVal
		if lowerIsBetter {
			diff = -diff
		}

		c.Rows = append(c.Rows, DiffRow{Token: token, Base: baseVal, New: newVal, Diff: diff})
		baseVals = append(baseVals, baseVal)
		newVals = append(newVals, newVal)
		diffs = append(diffs, diff)

		switch {
		case diff > 0:
			c.Summary.Improved++
		case diff < 0:
			c.Summary.Regressed++
		default:
			c.Summary.Unchanged++
		}
	}

	if len(c.Rows) == 0 {
		return nil, fmt.Errorf("no tokens present in both files with numeric %q", metric)
	}

	c.Summary.Total = len(c.Rows)
	c.Summary.BaseMean = stat.Mean(baseVals, nil)
	c.Summary.NewMean = stat.Mean(newVals, nil)
	c.Summary.DiffMean = stat.Mean(diffs, nil)
	if len(c.Rows) > 1 {
		c.Summary.BaseStd = stat.StdDev(baseVals, nil)
		c.Summary.NewStd = stat.StdDev(newVals, nil)
		c.Summary.DiffStd = stat.StdDev(diffs, nil)
	}

	return c, nil
}

// detectMetric picks the first column common to both sets whose first
// aligned value parses as a number.
func detectMetric(base, newSet *ResultSet) (string, error) {
	for _, col := range base.Columns {
		if col == "token" || col == "valid" || !hasColumn(newSet, col) {
			continue
		}
		for _, token := range base.Tokens {
			newRow := newSet.Row(token)
			if newRow == nil {
				continue
			}
			if _, err := strconv.ParseFloat(base.Row(token)[col], 64); err != nil {
				break
			}
			if _, err := strconv.ParseFloat(newRow[col], 64); err != nil {
				break
			}
			return col, nil
		}
	}
	return "", ErrNoMetric
}

func hasColumn(rs *ResultSet, name string) bool {
	for _, col := range rs.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// TopImproved returns up to k rows with the largest positive diffs,
// best first.
func (c *Comparison) TopImproved(k int) []DiffRow {
	return c.top(k, func(r DiffRow) bool { return r.Diff > 0 }, func(a, b DiffRow) bool { return a.Diff > b.Diff })
}

// TopRegressed returns up to k rows with the largest negative diffs,
// worst first.
func (c *Comparison) TopRegressed(k int) []DiffRow {
	return c.top(k, func(r DiffRow) bool { return r.Diff < 0 }, func(a, b DiffRow) bool { return a.Diff < b.Diff })
}

func (c *Comparison) top(k int, keep func(DiffRow) bool, less func(a, b DiffRow) bool) []DiffRow {
	var out []DiffRow
	for _, r := range c.Rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// WriteDiffCSV writes the per-token diffs as CSV.
func (c *Comparison) WriteDiffCSV(fs fsutil.FileSystem, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"token", c.Metric + "_base", c.Metric + "_new", "diff"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range c.Rows {
		record := []string{
			row.Token,
			strconv.FormatFloat(row.Base, 'g', -1, 64),
			strconv.FormatFloat(row.New, 'g', -1, 64),
			strconv.FormatFloat(row.Diff, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSummary prints the human-readable comparison report.
func (c *Comparison) WriteSummary(w io.Writer, topK int) {
	s := c.Summary
	pct := func(n int) float64 { return 100 * float64(n) / float64(s.Total) }

	fmt.Fprintf(w, "Aligned %d tokens present in both files.\n\n", s.Total)
	fmt.Fprintf(w, "Total tokens compared: %d\n", s.Total)
	fmt.Fprintf(w, "  - NEW better than BASE: %d (%.1f%%)\n", s.Improved, pct(s.Improved))
	fmt.Fprintf(w, "  - BASE better than NEW: %d (%.1f%%)\n", s.Regressed, pct(s.Regressed))
	fmt.Fprintf(w, "  - No change:            %d (%.1f%%)\n", s.Unchanged, pct(s.Unchanged))
	fmt.Fprintf(w, "\nMetric: %s\n", c.Metric)
	fmt.Fprintf(w, "  BASE mean: %.4f (std: %.4f)\n", s.BaseMean, s.BaseStd)
	fmt.Fprintf(w, "  NEW mean:  %.4f (std: %.4f)\n", s.NewMean, s.NewStd)
	fmt.Fprintf(w, "  Diff mean: %.4f (std: %.4f)\n", s.DiffMean, s.DiffStd)

	if improved := c.TopImproved(topK); len(improved) > 0 {
		fmt.Fprintf(w, "\nTop tokens where NEW > BASE:\n")
		for _, r := range improved {
			fmt.Fprintf(w, "  %s  base=%.4f new=%.4f diff=%+.4f\n", r.Token, r.Base, r.New, r.Diff)
		}
	}
	if regressed := c.TopRegressed(topK); len(regressed) > 0 {
		fmt.Fprintf(w, "\nTop tokens where BASE > NEW:\n")
		for _, r := range regressed {
			fmt.Fprintf(w, "  %s  base=%.4f new=%.4f diff=%+.4f\n", r.Token, r.Base, r.New, r.Diff)
		}
	}
}
