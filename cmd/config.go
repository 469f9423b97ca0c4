package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/heartlens/internal/config"
	"github.com/KaramelBytes/heartlens/internal/scale"
	"github.com/KaramelBytes/heartlens/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set heartlens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		fmt.Fprintf(out, "outcome: %s\n", cfg.Outcome)
		fmt.Fprintf(out, "scaler: %s\n", cfg.Scaler)
		fmt.Fprintf(out, "scale_columns: %s\n", strings.Join(cfg.ScaleColumns, ","))
		fmt.Fprintf(out, "drop_zero_cholesterol: %t\n", cfg.DropZeroCholesterol)
		fmt.Fprintf(out, "resting_bp_ceiling: %g\n", cfg.RestingBPCeiling)
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		db := cfg.Database
		fmt.Fprintf(out, "database.driver: %s\n", db.Driver)
		fmt.Fprintf(out, "database.username: %s\n", db.Username)
		fmt.Fprintf(out, "database.password: %s\n", mask(db.Password))
		fmt.Fprintf(out, "database.host: %s\n", db.Host)
		fmt.Fprintf(out, "database.port: %s\n", db.Port)
		fmt.Fprintf(out, "database.name: %s\n", db.Name)
		fmt.Fprintf(out, "database.sslmode: %s\n", db.SSLMode)
		fmt.Fprintf(out, "database.table: %s\n", db.Table)
		if db.Driver == "" || db.Driver == "postgres" {
			masked := db
			masked.Password = mask(db.Password)
			fmt.Fprintf(out, "database.url: %s\n", store.URL(masked))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Edit the file layer only so environment values are not persisted.
		fc, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "data_path":
			fc.DataPath = val
		case "outcome":
			fc.Outcome = val
		case "scaler":
			m, err := scale.ParseMethod(val)
			if err != nil {
				return err
			}
			fc.Scaler = string(m)
		case "scale_columns":
			fc.ScaleColumns = splitList(val)
		case "drop_zero_cholesterol":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for drop_zero_cholesterol: %v", val)
			}
			fc.DropZeroCholesterol = b
		case "resting_bp_ceiling":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for resting_bp_ceiling: %v", val)
			}
			fc.RestingBPCeiling = f
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for sample_rows: %v", val)
			}
			fc.SampleRows = i
		case "database.driver":
			switch strings.ToLower(val) {
			case "postgres", "postgresql", "pg":
				fc.Database.Driver = "postgres"
			case "sqlite", "sqlite3":
				fc.Database.Driver = "sqlite"
			default:
				return fmt.Errorf("invalid database.driver: %s (use postgres or sqlite)", val)
			}
		case "database.username":
			fc.Database.Username = val
		case "database.password":
			fc.Database.Password = val
		case "database.host":
			fc.Database.Host = val
		case "database.port":
			if _, err := strconv.Atoi(val); err != nil {
				return fmt.Errorf("invalid port: %v", val)
			}
			fc.Database.Port = val
		case "database.name":
			fc.Database.Name = val
		case "database.sslmode":
			fc.Database.SSLMode = val
		case "database.table":
			fc.Database.Table = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(fc, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
