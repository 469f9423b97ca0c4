package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/heartlens/internal/analysis"
	"github.com/KaramelBytes/heartlens/internal/utils"
)

var (
	sumOutputPath string
	sumSampleRows int
	sumRaw        bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Clean a CSV and print a dataset summary with head rows",
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
		rows := sumSampleRows
		if !cmd.Flags().Changed("sample-rows") && cfg != nil && cfg.SampleRows > 0 {
			rows = cfg.SampleRows
		}
		t := res.Cleaned
		if sumRaw {
			t = res.Raw
		}
		md := analysis.Summarize(t, rows).Markdown()

		if sumOutputPath != "" {
			if err := utils.SafeWriteFile(sumOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	summaryCmd.Flags().IntVar(&sumSampleRows, "sample-rows", 5, "number of head rows to include")
	summaryCmd.Flags().BoolVar(&sumRaw, "raw", false, "summarize the table as loaded, before cleaning")
}
