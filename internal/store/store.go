// Package store writes a cleaned table to a relational database, replacing
// any table of the same name.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/KaramelBytes/heartlens/internal/config"
	"github.com/KaramelBytes/heartlens/internal/dataset"
	"github.com/KaramelBytes/heartlens/internal/utils"
)

// DefaultTable is the destination used when none is configured.
const DefaultTable = "heart_disease"

// Stage names where a Save failed.
type Stage string

const (
	StageConnect Stage = "connect"
	StageWrite   Stage = "write"
)

// Result is the outcome of a Save. Err is nil on success.
type Result struct {
	Table   string
	Rows    int
	Elapsed time.Duration
	Stage   Stage
	Err     error
}

// OK reports whether the table was written.
func (r Result) OK() bool { return r.Err == nil }

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: %v", r.Stage, r.Table, r.Err)
	}
	return fmt.Sprintf("wrote %d rows to %s in %s", r.Rows, r.Table, r.Elapsed.Round(time.Millisecond))
}

// Persister writes tables to the database described by a config.Database.
type Persister struct {
	cfg config.Database
	d   dialect
	log *zap.Logger
}

// New validates cfg and returns a Persister. A nil logger is replaced by a no-op logger.
func New(cfg config.Database, log *zap.Logger) (*Persister, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Persister{cfg: cfg, d: d, log: log}, nil
}

// URL composes a postgresql:// connection string from the five connection
// values plus the optional sslmode and connect timeout.
func URL(c config.Database) string {
	u := url.URL{Scheme: "postgresql", Host: c.Host, Path: "/" + c.Name}
	if c.Port != "" {
		u.Host = net.JoinHostPort(c.Host, c.Port)
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.ConnectTimeoutSec > 0 {
		q.Set("connect_timeout", strconv.Itoa(c.ConnectTimeoutSec))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DSN returns the driver-specific data source name.
func (p *Persister) DSN() string {
	if p.d.driver == "sqlite" {
		if name, err := utils.ExpandHome(p.cfg.Name); err == nil {
			return name
		}
		return p.cfg.Name
	}
	return URL(p.cfg)
}

// Table returns the destination table name.
func (p *Persister) Table() string { return p.cfg.Table }

// Save connects, then drops, recreates and fills the destination table in a
// single transaction. Failures are reported in the Result, never panicked.
func (p *Persister) Save(ctx context.Context, t *dataset.Table) (res Result) {
	start := time.Now()
	res.Table = p.cfg.Table
	db, err := sql.Open(p.d.driver, p.DSN())
	if err != nil {
		res.Stage, res.Err = StageConnect, fmt.Errorf("open database: %w", err)
		return res
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			if res.Err == nil {
				res.Stage = StageWrite
			}
			res.Err = multierr.Append(res.Err, cerr)
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		res.Stage, res.Err = StageConnect, fmt.Errorf("connect to %s: %w", p.d.driver, err)
		p.log.Warn("database unreachable", zap.String("driver", p.d.driver), zap.String("host", p.cfg.Host), zap.Error(err))
		return res
	}
	p.log.Debug("database connected", zap.String("driver", p.d.driver), zap.String("host", p.cfg.Host))

	n, err := p.replace(ctx, db, t)
	res.Rows = n
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Stage, res.Err = StageWrite, err
		return res
	}
	p.log.Debug("table replaced", zap.String("table", p.cfg.Table), zap.Int("rows", n), zap.Duration("elapsed", res.Elapsed))
	return res
}

func (p *Persister) replace(ctx context.Context, db *sql.DB, t *dataset.Table) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	n, err := p.fill(ctx, tx, t)
	if err := endTx(tx, err); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Persister) fill(ctx context.Context, tx *sql.Tx, t *dataset.Table) (int, error) {
	table := pq.QuoteIdentifier(p.cfg.Table)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createStatement(p.d, p.cfg.Table, t)); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}
	rows := rowValues(t)
	if err := p.d.bulk(ctx, tx, p.cfg.Table, t.Names(), rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

type txn interface {
	Commit() error
	Rollback() error
}

// endTx rolls tx back when err is set and commits it otherwise.
// A failed commit is not followed by a rollback.
func endTx(tx txn, err error) error {
	if err != nil {
		return multierr.Append(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createStatement(d dialect, table string, t *dataset.Table) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = pq.QuoteIdentifier(c.Name) + " " + columnType(d, c)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(table), strings.Join(defs, ", "))
}

func columnType(d dialect, c *dataset.Column) string {
	switch {
	case c.Kind == dataset.Categorical:
		return d.textType
	case c.Integral():
		return d.intType
	default:
		return d.floatType
	}
}

// rowValues converts the table to driver values; missing values become NULL.
func rowValues(t *dataset.Table) [][]any {
	integral := make([]bool, len(t.Columns))
	for j, c := range t.Columns {
		integral[j] = c.Integral()
	}
	rows := make([][]any, t.Rows())
	for i := range rows {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			switch {
			case c.Missing(i):
				row[j] = nil
			case c.Kind == dataset.Categorical:
				row[j] = c.Cats[i]
			case integral[j]:
				row[j] = int64(math.Round(c.Nums[i]))
			default:
				row[j] = c.Nums[i]
			}
		}
		rows[i] = row
	}
	return rows
}
