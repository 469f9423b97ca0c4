// Package pipeline runs load → clean → scale → correlate in a fixed order.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/heartlens/internal/analysis"
	"github.com/KaramelBytes/heartlens/internal/clean"
	"github.com/KaramelBytes/heartlens/internal/config"
	"github.com/KaramelBytes/heartlens/internal/dataset"
	"github.com/KaramelBytes/heartlens/internal/scale"
)

// Options gathers every stage's settings.
type Options struct {
	Load         dataset.LoadOptions
	Clean        clean.Options
	Scaler       scale.Method
	ScaleColumns []string
	Outcome      string
}

// DefaultOptions mirrors the defaults of config.Load.
func DefaultOptions() Options {
	return Options{
		Load:         dataset.DefaultLoadOptions(),
		Clean:        clean.DefaultOptions(),
		Scaler:       scale.Standard,
		ScaleColumns: []string{dataset.Age, dataset.Cholesterol},
		Outcome:      dataset.HeartDisease,
	}
}

// FromConfig builds Options from the global configuration.
func FromConfig(c *config.Global) (Options, error) {
	opt := DefaultOptions()
	if c == nil {
		return opt, nil
	}
	m, err := scale.ParseMethod(c.Scaler)
	if err != nil {
		return opt, err
	}
	opt.Scaler = m
	if len(c.ScaleColumns) > 0 {
		opt.ScaleColumns = c.ScaleColumns
	}
	opt.Clean.DropZeroCholesterol = c.DropZeroCholesterol
	if c.RestingBPCeiling > 0 {
		opt.Clean.ClipCeiling = c.RestingBPCeiling
	}
	if c.Outcome != "" {
		opt.Outcome = c.Outcome
	}
	return opt, nil
}

// Result holds the output of every stage that ran.
type Result struct {
	Raw     *dataset.Table
	Cleaned *dataset.Table
	Stats   clean.Stats
	Scaling map[string]scale.Params
	Matrix  *analysis.CorrMatrix
	Ranked  []analysis.Correlation
}

// Runner executes the stages with a shared logger.
type Runner struct {
	opt Options
	log *zap.Logger
}

// New returns a Runner. A nil logger is replaced by a no-op logger.
func New(opt Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{opt: opt, log: log}
}

// Prepare loads, cleans and scales the CSV at path.
func (r *Runner) Prepare(path string) (*Result, error) {
	start := time.Now()
	raw, err := dataset.LoadCSV(path, r.opt.Load)
	if err != nil {
		return nil, err
	}
	r.log.Debug("loaded", zap.String("file", raw.Name), zap.Int("rows", raw.Rows()), zap.Int("columns", len(raw.Columns)))

	cleaned, st, err := clean.Clean(raw, r.opt.Clean)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	r.log.Debug("cleaned",
		zap.Int("rows", cleaned.Rows()),
		zap.Int("duplicates", st.DuplicatesDropped),
		zap.Int("zero_cholesterol", st.ZeroCholDropped),
		zap.Int("clipped", st.Clipped),
		zap.Any("imputed", st.Imputed))

	params, err := scale.Apply(cleaned, r.opt.Scaler, r.opt.ScaleColumns)
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	r.log.Debug("scaled", zap.String("method", string(r.opt.Scaler)), zap.Strings("columns", r.opt.ScaleColumns), zap.Duration("elapsed", time.Since(start)))
	return &Result{Raw: raw, Cleaned: cleaned, Stats: st, Scaling: params}, nil
}

// Run prepares the table and correlates it against the outcome column.
func (r *Runner) Run(path string) (*Result, error) {
	res, err := r.Prepare(path)
	if err != nil {
		return nil, err
	}
	res.Matrix = analysis.Correlate(res.Cleaned)
	res.Ranked, err = res.Matrix.Against(r.opt.Outcome)
	if err != nil {
		return nil, fmt.Errorf("correlate: %w", err)
	}
	r.log.Debug("correlated", zap.Int("columns", len(res.Matrix.Columns)), zap.String("outcome", r.opt.Outcome))
	return res, nil
}

// Outcome returns the configured outcome column.
func (r *Runner) Outcome() string { return r.opt.Outcome }
