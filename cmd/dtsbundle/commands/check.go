package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/akedrou/textdiff"
	"github.com/spf13/cobra"

	"github.com/dtsbundle/dtsbundle/internal/bundler"
)

var checkFlags bundleFlags

// CheckCmd verifies that bundle artifacts on disk match their inputs.
var CheckCmd = &cobra.Command{
	Use:   "check [bundle ...]",
	Short: "Verify bundles on disk are up to date",
	Long: `Rebuild each bundle in memory and compare it against the artifact on disk.

Stale artifacts are reported as a unified diff and make the command exit
non-zero; nothing is written. Useful as a CI gate for committed declaration
bundles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundles, root, err := resolveBundles(cmd, &checkFlags, args)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd, root)
		if err != nil {
			return err
		}
		comp := newCompiler(root, logger)

		stale := 0
		var errs []error
		for _, b := range bundles {
			b = withGlobalCompilerOptions(root, b)

			var buf bytes.Buffer
			err := bundler.New().
				WithOptions(b).
				WithCompiler(comp).
				WithLogger(logger).
				WithOutput(&buf).
				Build(cmd.Context())
			if err != nil {
				errs = append(errs, fmt.Errorf("bundle %s: %w", b.Name, err))
				continue
			}

			current, err := os.ReadFile(b.Out)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("bundle %s: %w", b.Name, err))
				continue
			}
			if string(current) == buf.String() {
				logger.Infof("Bundle %s is up to date.", b.Name)
				continue
			}

			stale++
			fmt.Fprint(cmd.OutOrStdout(), textdiff.Unified(b.Out, b.Name+" (want)", string(current), buf.String()))
		}

		if stale > 0 {
			errs = append(errs, fmt.Errorf("%d bundle(s) out of date; run dtsbundle build", stale))
		}
		return errors.Join(errs...)
	},
}

func init() {
	addBundleFlags(CheckCmd.Flags(), &checkFlags)
}
