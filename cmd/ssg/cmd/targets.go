package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List declared targets",
	Long: `Lists every target declared in the configuration with the public path
it is served under and the type of its content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		infos, err := client.Targets()
		if err != nil {
			return err
		}

		for _, t := range infos {
			fmt.Printf("  %-30s %-30s %s\n", t.Target, t.PublicPath, dimStyle.Render(t.Type))
		}
		info("\n%d target(s).", len(infos))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
