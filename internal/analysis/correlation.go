package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/heartlens/internal/dataset"
)

// ErrUnknownColumn is returned when a correlation is requested for a column
// that is not part of the matrix.
var ErrUnknownColumn = errors.New("column not in correlation matrix")

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Correlation is one entry of a matrix row.
type Correlation struct {
	Feature string
	R       float64
}

// pairAcc accumulates the sums needed for a pairwise-complete Pearson r.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

// r returns the Pearson coefficient, NaN when undefined.
func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return math.NaN()
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 || math.IsNaN(denom) {
		return math.NaN()
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Correlate computes the Pearson matrix over every numeric column of t, in
// column order. Categorical columns are skipped. Each pair only uses rows
// where both values are present.
func Correlate(t *dataset.Table) *CorrMatrix {
	var cols []*dataset.Column
	for _, c := range t.Columns {
		if c.Kind == dataset.Numeric {
			cols = append(cols, c)
		}
	}
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		m.Values[a][a] = 1
		for b := a + 1; b < n; b++ {
			r := Pearson(cols[a].Nums, cols[b].Nums)
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

// Pearson returns the correlation of x and y over the rows where both are present.
func Pearson(x, y []float64) float64 {
	var pa pairAcc
	for i := 0; i < len(x) && i < len(y); i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		pa.add(x[i], y[i])
	}
	return pa.r()
}

// Index returns the position of name in the matrix.
func (m *CorrMatrix) Index(name string) (int, error) {
	for i, c := range m.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
}

// At returns r for the pair (a, b).
func (m *CorrMatrix) At(a, b string) (float64, error) {
	i, err := m.Index(a)
	if err != nil {
		return 0, err
	}
	j, err := m.Index(b)
	if err != nil {
		return 0, err
	}
	return m.Values[i][j], nil
}

// Against returns the target's row sorted by r descending. The sort is stable
// so ties keep matrix order; NaN entries go last. The target's own entry is included.
func (m *CorrMatrix) Against(target string) ([]Correlation, error) {
	i, err := m.Index(target)
	if err != nil {
		return nil, err
	}
	out := make([]Correlation, len(m.Columns))
	for j, c := range m.Columns {
		out[j] = Correlation{Feature: c, R: m.Values[i][j]}
	}
	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := out[a].R, out[b].R
		if math.IsNaN(rb) {
			return !math.IsNaN(ra)
		}
		if math.IsNaN(ra) {
			return false
		}
		return ra > rb
	})
	return out, nil
}

// Without returns the matrix restricted to every column except the named ones.
func (m *CorrMatrix) Without(names ...string) *CorrMatrix {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []int
	for i, c := range m.Columns {
		if !drop[c] {
			keep = append(keep, i)
		}
	}
	out := &CorrMatrix{Columns: make([]string, len(keep)), Values: make([][]float64, len(keep))}
	for a, i := range keep {
		out.Columns[a] = m.Columns[i]
		out.Values[a] = make([]float64, len(keep))
		for b, j := range keep {
			out.Values[a][b] = m.Values[i][j]
		}
	}
	return out
}
