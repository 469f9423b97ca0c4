package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/heartlens/internal/pipeline"
	"github.com/KaramelBytes/heartlens/internal/report"
)

var (
	corrMatrix  bool
	corrRanking bool
)

var correlateCmd = &cobra.Command{
	Use:   "correlate [file]",
	Short: "Report how each feature correlates with the outcome",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		res, err := r.Run(dataPath(args))
		if err != nil {
			return err
		}
		return printCorrelations(cmd, r, res)
	},
}

func printCorrelations(cmd *cobra.Command, r *pipeline.Runner, res *pipeline.Result) error {
	out := cmd.OutOrStdout()
	opt := report.DefaultOptions()
	if r.Outcome() != opt.Target {
		opt.Target, opt.TargetLabel = r.Outcome(), r.Outcome()
	}
	if err := report.Write(out, res.Ranked, opt); err != nil {
		return err
	}
	if corrRanking {
		fmt.Fprintln(out)
		report.WriteRanking(out, res.Ranked, opt.Target)
	}
	if corrMatrix {
		fmt.Fprintln(out, "\nCorrelation Matrix of Features")
		report.WriteMatrix(out, res.Matrix.Without(opt.Target))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	for _, c := range []*cobra.Command{correlateCmd, runCmd} {
		c.Flags().BoolVar(&corrMatrix, "matrix", false, "also print the feature correlation matrix")
		c.Flags().BoolVar(&corrRanking, "ranking", false, "also print the ranked correlations as a table")
	}
}
