// Package clean turns a raw heart-disease table into an all-numeric table
// ready for scaling and correlation.
package clean

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/heartlens/internal/dataset"
)

// ErrUnmappedValue is returned when a categorical value has no entry in a fixed mapping.
var ErrUnmappedValue = errors.New("unmapped value")

// Options controls the cleaning steps.
type Options struct {
	// DropZeroCholesterol removes rows whose Cholesterol is exactly 0 before any
	// mean is computed.
	DropZeroCholesterol bool
	// Impute lists numeric columns whose missing values are replaced by the column mean.
	Impute []string
	// Mappings are fixed category→code tables applied first.
	Mappings map[string]map[string]float64
	// Encode lists categorical columns coded by first-seen order.
	Encode []string
	// ClipColumn values above ClipCeiling are replaced by ClipCeiling.
	ClipColumn  string
	ClipCeiling float64
}

// DefaultOptions returns the standard cleaning recipe.
func DefaultOptions() Options {
	return Options{
		Impute: []string{dataset.Age, dataset.Cholesterol, dataset.RestingBP, dataset.MaxHR},
		Mappings: map[string]map[string]float64{
			dataset.Sex:            {"M": 1, "F": 0},
			dataset.ExerciseAngina: {"Y": 1, "N": 0},
		},
		Encode:      []string{dataset.ChestPainType, dataset.RestingECG, dataset.STSlope},
		ClipColumn:  dataset.RestingBP,
		ClipCeiling: 200,
	}
}

// Stats records what each step changed.
type Stats struct {
	InputRows         int
	DuplicatesDropped int
	ZeroCholDropped   int
	Imputed           map[string]int
	ImputeMeans       map[string]float64
	Codes             map[string][]string
	Clipped           int
}

// Clean applies the cleaning steps in order and returns a new table.
// The input table is left untouched.
func Clean(in *dataset.Table, opt Options) (*dataset.Table, Stats, error) {
	st := Stats{
		InputRows:   in.Rows(),
		Imputed:     map[string]int{},
		ImputeMeans: map[string]float64{},
		Codes:       map[string][]string{},
	}

	t := DropDuplicates(in)
	st.DuplicatesDropped = in.Rows() - t.Rows()

	if opt.DropZeroCholesterol {
		before := t.Rows()
		var err error
		t, err = DropEqual(t, dataset.Cholesterol, 0)
		if err != nil {
			return nil, st, err
		}
		st.ZeroCholDropped = before - t.Rows()
	}

	for _, name := range opt.Impute {
		mean, n, err := FillMean(t, name)
		if err != nil {
			return nil, st, err
		}
		st.Imputed[name] = n
		st.ImputeMeans[name] = mean
	}

	// Fixed mappings run in schema order so errors are deterministic.
	for _, f := range dataset.HeartSchema {
		m, ok := opt.Mappings[f.Name]
		if !ok {
			continue
		}
		if err := MapValues(t, f.Name, m); err != nil {
			return nil, st, err
		}
	}
	for name, m := range opt.Mappings {
		if _, ok := dataset.HeartSchema.Lookup(name); ok {
			continue
		}
		if err := MapValues(t, name, m); err != nil {
			return nil, st, err
		}
	}

	for _, name := range opt.Encode {
		codes, err := EncodeFirstSeen(t, name)
		if err != nil {
			return nil, st, err
		}
		st.Codes[name] = codes
	}

	if opt.ClipColumn != "" {
		n, err := ClipAbove(t, opt.ClipColumn, opt.ClipCeiling)
		if err != nil {
			return nil, st, err
		}
		st.Clipped = n
	}
	return t, st, nil
}

// DropDuplicates returns a copy of t without repeated rows, keeping the first occurrence.
func DropDuplicates(t *dataset.Table) *dataset.Table {
	seen := make(map[string]struct{}, t.Rows())
	return t.Filter(func(i int) bool {
		k := t.RowKey(i)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// DropEqual returns a copy of t without the rows where the numeric column equals v.
func DropEqual(t *dataset.Table, name string, v float64) (*dataset.Table, error) {
	c, err := numeric(t, name)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(i int) bool { return c.Nums[i] != v }), nil
}

// FillMean replaces missing values of a numeric column with the mean of the
// present values. It returns the mean and the number of values filled.
// A column with no present values is left as is.
func FillMean(t *dataset.Table, name string) (float64, int, error) {
	c, err := numeric(t, name)
	if err != nil {
		return 0, 0, err
	}
	var sum float64
	var n int
	for _, v := range c.Nums {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), 0, nil
	}
	mean := sum / float64(n)
	filled := 0
	for i, v := range c.Nums {
		if math.IsNaN(v) {
			c.Nums[i] = mean
			filled++
		}
	}
	return mean, filled, nil
}

// MapValues converts a categorical column to numeric codes using m.
// Missing values stay missing; a present value absent from m is an error.
func MapValues(t *dataset.Table, name string, m map[string]float64) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}
	if c.Kind == dataset.Numeric {
		return nil
	}
	nums := make([]float64, len(c.Cats))
	for i, v := range c.Cats {
		if v == "" {
			nums[i] = math.NaN()
			continue
		}
		code, ok := m[v]
		if !ok {
			return fmt.Errorf("%w: column %s row %d: %q", ErrUnmappedValue, name, i+1, v)
		}
		nums[i] = code
	}
	c.Kind = dataset.Numeric
	c.Nums = nums
	c.Cats = nil
	return nil
}

// EncodeFirstSeen assigns consecutive integer codes to the distinct values of a
// categorical column in the order they first appear. It returns the categories
// indexed by code.
func EncodeFirstSeen(t *dataset.Table, name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind == dataset.Numeric {
		return nil, nil
	}
	var cats []string
	codes := map[string]float64{}
	for _, v := range c.Cats {
		if v == "" {
			continue
		}
		if _, ok := codes[v]; !ok {
			codes[v] = float64(len(cats))
			cats = append(cats, v)
		}
	}
	if err := MapValues(t, name, codes); err != nil {
		return nil, err
	}
	return cats, nil
}

// ClipAbove caps a numeric column at ceiling and returns how many values changed.
func ClipAbove(t *dataset.Table, name string, ceiling float64) (int, error) {
	c, err := numeric(t, name)
	if err != nil {
		return 0, err
	}
	n := 0
	for i, v := range c.Nums {
		if v > ceiling {
			c.Nums[i] = ceiling
			n++
		}
	}
	return n, nil
}

func numeric(t *dataset.Table, name string) (*dataset.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.Numeric {
		return nil, fmt.Errorf("column %s is %s, want numeric", name, c.Kind)
	}
	return c, nil
}
