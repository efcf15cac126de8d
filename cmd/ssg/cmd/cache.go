package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/ssg/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the fetch cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		if c == nil {
			info("Cache disabled.")
			return nil
		}

		size, err := c.Size()
		if err != nil {
			return fmt.Errorf("measuring cache: %w", err)
		}
		fmt.Printf("  cache dir:     %s\n", c.Path())
		fmt.Printf("  cache size:    %s\n", humanSize(size))
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached fetch",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		if c == nil {
			info("Cache disabled.")
			return nil
		}

		size, _ := c.Size()
		if err := os.RemoveAll(c.Path()); err != nil {
			return fmt.Errorf("removing cache: %w", err)
		}
		info("Removed %s (%s).", c.Path(), humanSize(size))
		return nil
	},
}

// openCache returns the cache the config selects, or the default cache when
// there is no usable config. It returns nil when caching is disabled.
func openCache() (*cache.Cache, error) {
	client, err := newClient()
	if err != nil {
		detail("no usable config (%s), using default cache", err)
		return cache.New(cache.DefaultDir())
	}
	return client.Cache(), nil
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	rootCmd.AddCommand(cacheCmd)
}
