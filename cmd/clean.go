package cmd

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/heartlens/internal/clean"
)

var (
	cleanOutputPath string
	cleanQuiet      bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean (and scale) a CSV and write the result as CSV",
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
		if cleanOutputPath == "" {
			return res.Cleaned.WriteCSV(cmd.OutOrStdout())
		}
		if err := res.Cleaned.SaveCSV(cleanOutputPath); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Wrote %s cleaned rows to %s\n", humanize.Comma(int64(res.Cleaned.Rows())), cleanOutputPath)
		if !cleanQuiet {
			printCleanStats(cmd, res.Stats)
		}
		return nil
	},
}

func printCleanStats(cmd *cobra.Command, st clean.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  input rows: %s\n", humanize.Comma(int64(st.InputRows)))
	fmt.Fprintf(out, "  duplicates dropped: %d\n", st.DuplicatesDropped)
	if st.ZeroCholDropped > 0 {
		fmt.Fprintf(out, "  zero-cholesterol rows dropped: %d\n", st.ZeroCholDropped)
	}
	names := make([]string, 0, len(st.Imputed))
	for k := range st.Imputed {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if st.Imputed[k] > 0 {
			fmt.Fprintf(out, "  %s: imputed %d values with mean %.2f\n", k, st.Imputed[k], st.ImputeMeans[k])
		}
	}
	fmt.Fprintf(out, "  values clipped: %d\n", st.Clipped)
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutputPath, "output", "o", "", "path to write the cleaned CSV (stdout if omitted)")
	cleanCmd.Flags().BoolVarP(&cleanQuiet, "quiet", "q", false, "suppress cleaning statistics")
}
