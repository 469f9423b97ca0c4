// Package report prints correlations with the outcome as plain-language text.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/heartlens/internal/analysis"
	"github.com/KaramelBytes/heartlens/internal/dataset"
)

// Options controls report rendering.
type Options struct {
	// Target is the outcome column; its self-correlation is never printed.
	Target string
	// TargetLabel is the outcome's name in sentences. Defaults to "Heart Disease".
	TargetLabel string
	// Footnotes enables the Cholesterol note after the feature list.
	Footnotes bool
}

// DefaultOptions reports against HeartDisease.
func DefaultOptions() Options {
	return Options{Target: dataset.HeartDisease, TargetLabel: "Heart Disease", Footnotes: true}
}

var (
	positive = color.New(color.FgRed, color.Bold)
	negative = color.New(color.FgGreen, color.Bold)
	neutral  = color.New(color.Faint)
	heading  = color.New(color.FgCyan)
)

// Entry is one printed line of the report.
type Entry struct {
	Feature     string
	R           float64
	Strength    Strength
	Explanation string
}

// Entries classifies corrs, dropping the target's own entry and keeping order.
func Entries(corrs []analysis.Correlation, target string) []Entry {
	out := make([]Entry, 0, len(corrs))
	for _, c := range corrs {
		if c.Feature == target {
			continue
		}
		out = append(out, Entry{
			Feature:     c.Feature,
			R:           c.R,
			Strength:    Classify(c.R),
			Explanation: Explain(c.Feature),
		})
	}
	return out
}

// Write prints the human-readable correlation report.
func Write(w io.Writer, corrs []analysis.Correlation, opt Options) error {
	label := opt.TargetLabel
	if label == "" {
		label = opt.Target
	}
	if _, err := heading.Fprintf(w, "Correlations with %s (human-readable format):\n", label); err != nil {
		return err
	}
	for _, e := range Entries(corrs, opt.Target) {
		paint := neutral
		switch e.Strength {
		case StrongPositive, ModeratePositive:
			paint = positive
		case StrongNegative, ModerateNegative:
			paint = negative
		}
		if _, err := fmt.Fprintf(w, "\n--- %s ---\n%s\n", e.Feature, e.Explanation); err != nil {
			return err
		}
		sentence := fmt.Sprintf("%s correlation, meaning %s", e.Strength.Label(), e.Strength.Meaning())
		if _, err := fmt.Fprintf(w, "Correlation with %s: %s (%s)\n", label, signed(e.R), paint.Sprint(sentence)); err != nil {
			return err
		}
	}
	if opt.Footnotes {
		for _, c := range corrs {
			if c.Feature != dataset.Cholesterol || math.IsNaN(c.R) {
				continue
			}
			var note string
			if c.R < 0 {
				note = fmt.Sprintf("\nCholesterol's correlation with %s: %.2f (weak negative correlation, meaning that higher cholesterol levels might be weakly associated with lower %s risk in this dataset. This could be due to other factors or data anomalies.)\n", label, c.R, label)
			} else {
				note = fmt.Sprintf("\nCholesterol's correlation with %s: %.2f (positive correlation, meaning higher cholesterol levels are associated with greater %s risk)\n", label, c.R, label)
			}
			if _, err := io.WriteString(w, note); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteMatrix renders the full correlation matrix as a console table.
func WriteMatrix(w io.Writer, m *analysis.CorrMatrix) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader(append([]string{""}, m.Columns...))
	for i, name := range m.Columns {
		row := make([]string, 0, len(m.Columns)+1)
		row = append(row, name)
		for _, r := range m.Values[i] {
			row = append(row, fixed(r))
		}
		table.Append(row)
	}
	table.Render()
}

// WriteRanking renders the target's ranked correlations as a two-column table.
func WriteRanking(w io.Writer, corrs []analysis.Correlation, target string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Feature", "r", "Strength"})
	for _, e := range Entries(corrs, target) {
		table.Append([]string{e.Feature, fixed(e.R), e.Strength.Label()})
	}
	table.Render()
}

func signed(r float64) string {
	if math.IsNaN(r) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f", r)
}

func fixed(r float64) string {
	if math.IsNaN(r) {
		return "n/a"
	}
	return strconv.FormatFloat(r, 'f', 2, 64)
}
