package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtsbundle/dtsbundle/internal/bundler"
	"github.com/dtsbundle/dtsbundle/internal/progress"
)

var buildFlags struct {
	bundleFlags
	noProgress bool
}

// BuildCmd builds declaration bundles.
var BuildCmd = &cobra.Command{
	Use:   "build [bundle ...]",
	Short: "Build declaration bundles",
	Long: `Build declaration bundles from the configuration, or one ad-hoc bundle
described entirely by flags.

Without arguments every configured bundle is built; arguments select bundles
by name. With --name, the configuration is ignored and the arguments are the
bundle's input files or glob patterns instead.

A failing bundle does not stop the remaining ones; the command reports every
failure and exits non-zero if any bundle failed.

Examples:
  dtsbundle build
  dtsbundle build mylib otherlib
  dtsbundle build -c conf/ -c override.yaml
  dtsbundle build -n mylib -o dist/mylib.d.ts --base-dir types --main mylib/index '**.d.ts'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundles, root, err := resolveBundles(cmd, &buildFlags.bundleFlags, args)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd, root)
		if err != nil {
			return err
		}
		comp := newCompiler(root, logger)

		var errs []error
		for _, b := range bundles {
			b = withGlobalCompilerOptions(root, b)

			var bar *progress.Bar
			if !buildFlags.noProgress {
				bar = progress.NewBar(cmd.ErrOrStderr(), -1, b.Name)
			}

			err := bundler.New().
				WithOptions(b).
				WithCompiler(comp).
				WithLogger(logger).
				WithProgress(func(msg string) {
					logger.Debugf("%s", msg)
					bar.Add(1)
				}).
				Build(cmd.Context())
			bar.Finish()

			if err != nil {
				errs = append(errs, fmt.Errorf("bundle %s: %w", b.Name, err))
				continue
			}
			logger.Infof("Bundle %s written to %s.", b.Name, b.Out)
		}
		return errors.Join(errs...)
	},
}

func init() {
	addBundleFlags(BuildCmd.Flags(), &buildFlags.bundleFlags)
	BuildCmd.Flags().BoolVar(&buildFlags.noProgress, "no-progress", false, "disable the progress bar")
}
