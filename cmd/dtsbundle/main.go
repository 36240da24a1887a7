package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtsbundle/dtsbundle/cmd/dtsbundle/commands"
	"github.com/dtsbundle/dtsbundle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "dtsbundle",
	Short:   "dtsbundle - TypeScript declaration bundler",
	Version: version.Get().Version,

	Long: `dtsbundle joins per-file TypeScript declaration modules into a single
namespaced declaration artifact.

Bundles are described in a YAML configuration file (dtsbundle.yaml by
default), or assembled ad hoc from command line flags with --name.

Available commands:
  build   - Build declaration bundles
  check   - Verify bundles on disk are up to date
  modules - List the modules each bundle would contain
  schema  - Print the configuration file JSON schema
  version - Show version information

Examples:
  dtsbundle build                                # build every configured bundle
  dtsbundle build mylib                          # build one configured bundle
  dtsbundle build -n mylib -o dist/mylib.d.ts \
      --base-dir types '**.d.ts'                 # build without a config file
  dtsbundle check                                # fail if any artifact is stale
  dtsbundle modules mylib                        # inspect a bundle's contents`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringArrayP("config", "c", nil, "configuration file or directory (repeatable, merged in order)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: pretty or json")

	rootCmd.AddCommand(commands.BuildCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ModulesCmd)
	rootCmd.AddCommand(commands.SchemaCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
