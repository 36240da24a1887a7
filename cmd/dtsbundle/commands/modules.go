package commands

import (
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dtsbundle/dtsbundle/internal/bundler"
)

var modulesFlags bundleFlags

// ModulesCmd lists the modules each bundle would contain.
var ModulesCmd = &cobra.Command{
	Use:   "modules [bundle ...]",
	Short: "List the modules each bundle would contain",
	Long: `Resolve each bundle's program and list its files in emission order, with
the module id each one is addressed by. Ambient files carry no module id.
Nothing is built or written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundles, root, err := resolveBundles(cmd, &modulesFlags, args)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd, root)
		if err != nil {
			return err
		}
		comp := newCompiler(root, logger)

		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header("BUNDLE", "FILE", "MODULE", "KIND")

		var errs []error
		for _, b := range bundles {
			b = withGlobalCompilerOptions(root, b)

			modules, err := bundler.New().
				WithOptions(b).
				WithCompiler(comp).
				WithLogger(logger).
				Modules(cmd.Context())
			if err != nil {
				errs = append(errs, fmt.Errorf("bundle %s: %w", b.Name, err))
				continue
			}

			for _, m := range modules {
				id, kind := m.ID, "external"
				if !m.External {
					id, kind = "-", "ambient"
				}
				if err := table.Append([]string{b.Name, m.File, id, kind}); err != nil {
					return err
				}
			}
		}

		if err := table.Render(); err != nil {
			return err
		}
		return errors.Join(errs...)
	},
}

func init() {
	addBundleFlags(ModulesCmd.Flags(), &modulesFlags)
}
