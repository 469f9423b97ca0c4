package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/heartlens/internal/config"
	"github.com/KaramelBytes/heartlens/internal/dataset"
	"github.com/KaramelBytes/heartlens/internal/store"
)

var (
	persistTableName string
	persistDriver    string
	persistStrict    bool
)

var persistCmd = &cobra.Command{
	Use:   "persist [file]",
	Short: "Clean a CSV and replace the destination database table with it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		res, err := r.Prepare(dataPath(args))
		if err != nil {
			return err
		}
		return saveTable(cmd, res.Cleaned)
	},
}

// databaseConfig returns the configured database settings with flag overrides applied.
func databaseConfig(cmd *cobra.Command) cfgpkg.Database {
	var db cfgpkg.Database
	if cfg != nil {
		db = cfg.Database
	}
	if cmd.Flags().Changed("table") && persistTableName != "" {
		db.Table = persistTableName
	}
	if cmd.Flags().Changed("driver") && persistDriver != "" {
		db.Driver = persistDriver
	}
	return db
}

// saveTable writes t best-effort: a failed Result is printed as a warning and
// only becomes an error with --strict.
func saveTable(cmd *cobra.Command, t *dataset.Table) error {
	p, err := store.New(databaseConfig(cmd), log)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res := p.Save(ctx, t)
	if !res.OK() {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: could not persist table %s (%s): %v\n", res.Table, res.Stage, res.Err)
		if persistStrict {
			return errors.Join(errors.New("persist failed"), res.Err)
		}
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s rows to table %s (%s)\n",
		humanize.Comma(int64(res.Rows)), res.Table, res.Elapsed.Round(time.Millisecond))
	return nil
}

func init() {
	rootCmd.AddCommand(persistCmd)
	for _, c := range []*cobra.Command{persistCmd, runCmd} {
		c.Flags().StringVar(&persistTableName, "table", "", "destination table (default heart_disease)")
		c.Flags().StringVar(&persistDriver, "driver", "", "database driver: postgres | sqlite (overrides config)")
		c.Flags().BoolVar(&persistStrict, "strict", false, "exit non-zero when the table cannot be written")
	}
}
