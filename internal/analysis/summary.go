package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/heartlens/internal/dataset"
)

// Summary is a markdown-friendly description of a table.
type Summary struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
}

// ColumnSummary captures kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize builds a Summary with up to sampleRows head rows.
func Summarize(t *dataset.Table, sampleRows int) *Summary {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	s := &Summary{Name: t.Name, Rows: t.Rows()}
	for _, c := range t.Columns {
		s.Cols = append(s.Cols, summarizeColumn(c))
	}
	for i := 0; i < t.Rows() && i < sampleRows; i++ {
		s.Samples = append(s.Samples, t.Row(i))
	}
	for _, c := range s.Cols {
		if c.Missing > 0 {
			s.Warnings = append(s.Warnings, fmt.Sprintf("%s still has %d missing values", c.Name, c.Missing))
		}
	}
	return s
}

func summarizeColumn(c *dataset.Column) ColumnSummary {
	cs := ColumnSummary{Name: c.Name, Kind: c.Kind.String()}
	if c.Kind == dataset.Categorical {
		counts := map[string]int{}
		for _, v := range c.Cats {
			if v == "" {
				cs.Missing++
				continue
			}
			cs.NonNull++
			counts[v]++
		}
		tops := make([]CategoryCount, 0, len(counts))
		for k, v := range counts {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 8 {
			tops = tops[:8]
		}
		cs.TopValues = tops
		cs.Unique = len(counts)
		return cs
	}
	// Welford
	var n int
	var mean, m2 float64
	cs.Min, cs.Max = math.Inf(1), math.Inf(-1)
	for _, x := range c.Nums {
		if math.IsNaN(x) {
			cs.Missing++
			continue
		}
		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		if x < cs.Min {
			cs.Min = x
		}
		if x > cs.Max {
			cs.Max = x
		}
	}
	cs.NonNull = n
	if n == 0 {
		cs.Min, cs.Max = 0, 0
		return cs
	}
	cs.Mean = mean
	if n > 1 {
		cs.Std = math.Sqrt(m2 / float64(n-1))
	}
	return cs
}

// Markdown renders a compact report suitable for the console or a file.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(s.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(s.Samples) > 0 {
		b.WriteString("\n[HEAD ROWS]\n")
		b.WriteString("| ")
		for i, c := range s.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(c.Name)
		}
		b.WriteString(" |\n| ")
		for i := range s.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range s.Samples {
			b.WriteString("| ")
			for i, v := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(shortNum(v)))
			}
			b.WriteString(" |\n")
		}
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// shortNum trims long float renderings (scaled columns) to four significant digits.
func shortNum(v string) string {
	if len(v) <= 8 {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f, 'g', 4, 64)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
