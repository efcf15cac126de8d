package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/ssg/pkg/ssg"
)

var (
	buildOutput      string
	buildConcurrency int
	buildDryRun      bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate every configured target",
	Long: `Produces every file listed in ssg.yaml and writes it to the output
directory. All targets are attempted even when some fail. At the end, every
duplicate target, every link to an undeclared target and every failed
target is reported together.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, ssg.BuildOptions{
			OutputDir:   buildOutput,
			Concurrency: buildConcurrency,
			DryRun:      buildDryRun,
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Generate without writing and report problems",
	Long: `Runs the full generation without touching the output directory and
reports duplicate, missing and failed targets. Exits non-zero when any is
found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, ssg.BuildOptions{DryRun: true})
	},
}

func runBuild(cmd *cobra.Command, opts ssg.BuildOptions) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	progress := make(chan ssg.Result)
	opts.Progress = progress

	var ok, failed int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range progress {
			if res.OK() {
				ok++
				info("%s  %s", okStyle.Render("ok  "), res.Success.Target)
				detail("%s", dimStyle.Render(fmt.Sprintf("%s, %d expected", humanSize(int64(res.Success.Size)), len(res.Success.Expected))))
			} else {
				failed++
				info("%s  %s", failStyle.Render("FAIL"), res.Err.Target)
			}
		}
	}()

	buildErr := client.Build(cmd.Context(), opts)
	<-done

	if opts.DryRun {
		info("Dry run: no files written.")
	}

	var fe *ssg.FinalError
	if errors.As(buildErr, &fe) {
		fmt.Fprintln(os.Stderr, fe.Error())
		info("")
		info("Build failed: %d ok, %d failed, %d duplicate, %d missing.",
			ok, failed, len(fe.Duplicates), len(fe.Missing))
		return fmt.Errorf("%d problem(s) found", len(fe.Duplicates)+len(fe.Missing)+len(fe.Failed))
	}
	if buildErr != nil {
		return buildErr
	}

	info("")
	info("Build complete: %d target(s) in %s.", ok, client.OutputDir(opts.OutputDir))
	return nil
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output directory (default from config, else ./public)")
	buildCmd.Flags().IntVar(&buildConcurrency, "concurrency", 0, "maximum targets in flight (0 = config value or unbounded)")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "produce every target without writing files")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
}
