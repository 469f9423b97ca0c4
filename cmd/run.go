package cmd

import (
	"github.com/spf13/cobra"
)

var runSkipPersist bool

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Clean, scale, persist (best-effort) and report correlations in one pass",
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
		if !runSkipPersist {
			if err := saveTable(cmd, res.Cleaned); err != nil {
				return err
			}
		}
		return printCorrelations(cmd, r, res)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runSkipPersist, "no-persist", false, "skip writing to the database")
}
