package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// dialect captures what differs between the supported drivers.
type dialect struct {
	driver    string
	intType   string
	floatType string
	textType  string
	// bulk inserts rows into an existing table inside tx.
	bulk func(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) error
}

var dialects = map[string]dialect{
	"postgres": {
		driver:    "postgres",
		intType:   "BIGINT",
		floatType: "DOUBLE PRECISION",
		textType:  "TEXT",
		bulk:      copyIn,
	},
	"sqlite": {
		driver:    "sqlite",
		intType:   "INTEGER",
		floatType: "REAL",
		textType:  "TEXT",
		bulk:      insertPrepared,
	},
}

func lookupDialect(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql", "pg":
		return dialects["postgres"], nil
	case "sqlite", "sqlite3":
		return dialects["sqlite"], nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q (use postgres or sqlite)", driver)
	}
}

// copyIn streams rows with the Postgres COPY protocol.
func copyIn(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, cols...))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy row %d: %w", i+1, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	return stmt.Close()
}

// insertPrepared runs one prepared INSERT per row.
func insertPrepared(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) error {
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
		marks[i] = "?"
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	return nil
}
