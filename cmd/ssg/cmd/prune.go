package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/ssg/pkg/ssg"
)

var (
	pruneOutput string
	pruneDryRun bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove files no longer declared in the configuration",
	Long: `Walks the output directory and removes every file that is not a
declared target, then removes directories left empty.
Use --dry-run to see what would be removed without acting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Prune(cmd.Context(), ssg.PruneOptions{DryRun: pruneDryRun, OutputDir: pruneOutput})
		if err != nil {
			return err
		}

		if pruneDryRun {
			info("Dry run: no files removed.")
		}

		if len(result.Removed) == 0 {
			info("Nothing to prune.")
			return nil
		}

		for _, f := range result.Removed {
			info("  %s  %s", f.Action, f.Path)
		}
		info("\nPruned %d file(s).", len(result.Removed))
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVarP(&pruneOutput, "output", "o", "", "output directory (default from config, else ./public)")
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "show what would be removed without acting")
	rootCmd.AddCommand(pruneCmd)
}
