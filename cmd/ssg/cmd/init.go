package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/ssg/internal/config"
)

var initForce bool

// initTemplate is the default ssg.yaml scaffold.
// It builds a two-page site that links across pages.
const initTemplate = `# ssg configuration
version: 1

output_dir: public
# concurrency: 8              # bound on targets in flight (default: unbounded)

variables:
  site_name: My Site

# layouts:
#   page: layouts/page.html   # text/template with {{ .Title }} and {{ .Content }}

files:
  - target: /index.html
    type: template
    content: |
      <h1>{{ var "site_name" }}</h1>
      <a href="{{ link "/about.html" }}">About</a>

  - target: /about.html
    type: markdown
    content: |
      # About

      Back to [home](/).

  # Inline bytes
  # - target: /robots.txt
  #   type: static
  #   content: "User-agent: *"

  # A local file, relative to this config
  # - target: /css/site.css
  #   type: file
  #   path: assets/site.css

  # A remote asset, cached under ~/.cache/ssg
  # - target: /js/htmx.min.js
  #   type: url
  #   url: https://unpkg.com/htmx.org/dist/htmx.min.js

# fetch:
#   timeout: 30s
#   max_size: 10485760
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter ssg.yaml configuration",
	Long: `Creates an ssg.yaml file in the current directory with a small linked
site and commented examples for every file type.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if outPath == "" {
			outPath = config.FileName
		}
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Edit the file to declare your pages and assets")
		info("  2. Run 'ssg check' to find broken links")
		info("  3. Run 'ssg build' to write the site")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
