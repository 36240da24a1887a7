package commands

import (
	"github.com/spf13/cobra"

	"github.com/dtsbundle/dtsbundle/config"
)

// SchemaCmd prints the JSON schema configuration files are validated against.
var SchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration file JSON schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(config.Schema())
		return err
	},
}
