package scale

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/heartlens/internal/dataset"
)

// Method selects a normalization.
type Method string

const (
	None     Method = "none"
	Standard Method = "standard"
	MinMax   Method = "minmax"
)

// ErrUnknownMethod is returned by ParseMethod and Apply for unsupported methods.
var ErrUnknownMethod = errors.New("unknown scaling method")

// ParseMethod accepts "standard", "minmax", "none" and a few spellings of each.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return None, nil
	case "standard", "std", "zscore", "z-score":
		return Standard, nil
	case "minmax", "min-max", "min_max":
		return MinMax, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMethod, s)
	}
}

// Params are the fitted values used to transform a column: x' = (x - Offset) / Scale.
type Params struct {
	Offset float64
	Scale  float64
}

// Fit computes the parameters of method for vals, ignoring missing values.
// A zero spread yields a Scale of 1.
func Fit(method Method, vals []float64) (Params, error) {
	var n int
	var mean, m2 float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range vals {
		if math.IsNaN(x) {
			continue
		}
		// Welford update
		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if n == 0 {
		return Params{Offset: 0, Scale: 1}, nil
	}
	switch method {
	case Standard:
		sd := math.Sqrt(m2 / float64(n))
		if sd == 0 {
			sd = 1
		}
		return Params{Offset: mean, Scale: sd}, nil
	case MinMax:
		span := hi - lo
		if span == 0 {
			span = 1
		}
		return Params{Offset: lo, Scale: span}, nil
	case None:
		return Params{Offset: 0, Scale: 1}, nil
	default:
		return Params{}, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// Transform applies p to vals in place. Missing values stay missing.
func (p Params) Transform(vals []float64) {
	for i, x := range vals {
		if math.IsNaN(x) {
			continue
		}
		vals[i] = (x - p.Offset) / p.Scale
	}
}

// Apply fits method on each named column of t and rescales it in place.
// It returns the fitted parameters keyed by column name.
func Apply(t *dataset.Table, method Method, columns []string) (map[string]Params, error) {
	switch method {
	case None, Standard, MinMax:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	out := make(map[string]Params, len(columns))
	if method == None {
		return out, nil
	}
	for _, name := range columns {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Kind != dataset.Numeric {
			return nil, fmt.Errorf("scale %s: column is %s, want numeric", name, c.Kind)
		}
		p, err := Fit(method, c.Nums)
		if err != nil {
			return nil, err
		}
		p.Transform(c.Nums)
		out[name] = p
	}
	return out, nil
}
