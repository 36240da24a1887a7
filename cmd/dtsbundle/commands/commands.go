// Package commands implements the dtsbundle CLI commands.
package commands

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"

	"github.com/dtsbundle/dtsbundle/internal/compiler"
	"github.com/dtsbundle/dtsbundle/internal/config"
	"github.com/dtsbundle/dtsbundle/internal/logging"
)

const defaultConfigFile = "dtsbundle.yaml"

// bundleFlags assembles an ad-hoc bundle from command line flags, bypassing
// configuration files. The ad-hoc mode is active when --name is set; the
// command's positional arguments then name files instead of bundles.
type bundleFlags struct {
	name     string
	baseDir  string
	out      string
	excludes []string
	externs  []string
	main     string
	indent   string
	eol      eolMode
	target   string
	jobs     int
}

type eolMode enumflag.Flag

const (
	eolNative eolMode = iota
	eolLF
	eolCRLF
)

var eolModeIds = map[eolMode][]string{
	eolNative: {config.EolNative},
	eolLF:     {config.EolLF},
	eolCRLF:   {config.EolCRLF},
}

func (m eolMode) name() string {
	return eolModeIds[m][0]
}

func addBundleFlags(fs *pflag.FlagSet, f *bundleFlags) {
	fs.StringVarP(&f.name, "name", "n", "", "assemble one ad-hoc bundle with this package name; positional arguments become its files")
	fs.StringVar(&f.baseDir, "base-dir", ".", "base directory module ids are computed from")
	fs.StringVarP(&f.out, "out", "o", "", "output artifact path")
	fs.StringArrayVar(&f.excludes, "exclude", nil, "glob pattern of files to omit (repeatable)")
	fs.StringArrayVar(&f.externs, "extern", nil, "reference path emitted before the modules (repeatable)")
	fs.StringVar(&f.main, "main", "", "module id re-exported as the package entry alias")
	fs.StringVar(&f.indent, "indent", "", "indentation unit (default one tab)")
	fs.Var(enumflag.New(&f.eol, "eol", eolModeIds, enumflag.EnumCaseInsensitive), "eol", "line terminator: native, lf or crlf")
	fs.StringVar(&f.target, "target", "", "language level passed to the compiler")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "concurrent declaration emissions")
}

func (f *bundleFlags) bundle(files []string) (*config.Bundle, error) {
	b := &config.Bundle{
		Name:     f.name,
		BaseDir:  f.baseDir,
		Out:      f.out,
		Files:    files,
		Excludes: f.excludes,
		Externs:  f.externs,
		Main:     f.main,
		Indent:   f.indent,
		Eol:      f.eol.name(),
		Target:   f.target,
		Jobs:     f.jobs,
	}
	if err := b.Complete(); err != nil {
		return nil, err
	}
	return b, nil
}

// resolveBundles decides what a command operates on: the single ad-hoc bundle
// described by flags, or bundles selected by name from the configuration.
func resolveBundles(cmd *cobra.Command, f *bundleFlags, args []string) ([]*config.Bundle, *config.Root, error) {
	if f.name != "" {
		b, err := f.bundle(args)
		if err != nil {
			return nil, nil, err
		}
		return []*config.Bundle{b}, nil, nil
	}

	paths, err := cmd.Flags().GetStringArray("config")
	if err != nil {
		return nil, nil, err
	}
	root, err := loadConfig(paths)
	if err != nil {
		return nil, nil, err
	}
	bundles, err := selectBundles(root, args)
	if err != nil {
		return nil, nil, err
	}
	return bundles, root, nil
}

func loadConfig(paths []string) (*config.Root, error) {
	if len(paths) == 0 {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return nil, fmt.Errorf("no configuration found: pass --config or create %s", defaultConfigFile)
		}
		paths = []string{defaultConfigFile}
	}

	bs, err := config.Merge(paths, true)
	if err != nil {
		return nil, err
	}
	return config.Parse(bs)
}

// selectBundles picks the named bundles, or every bundle in sorted order when
// no names are given.
func selectBundles(root *config.Root, names []string) ([]*config.Bundle, error) {
	if len(names) == 0 {
		var bundles []*config.Bundle
		for _, b := range root.SortedBundles() {
			bundles = append(bundles, b)
		}
		if len(bundles) == 0 {
			return nil, errors.New("configuration defines no bundles")
		}
		return bundles, nil
	}

	bundles := make([]*config.Bundle, 0, len(names))
	for _, name := range names {
		b, ok := root.Bundles[name]
		if !ok {
			return nil, fmt.Errorf("bundle %q not found in configuration", name)
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

func newLogger(cmd *cobra.Command, root *config.Root) (*logging.Logger, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}

	var cfg logging.Config
	if root != nil {
		cfg = root.Logging
	}
	cfg.Level = cmp.Or(level, cfg.Level)
	cfg.Format = cmp.Or(format, cfg.Format, logging.FormatPretty)
	return logging.NewLogger(cfg, cmd.ErrOrStderr())
}

func newCompiler(root *config.Root, logger *logging.Logger) compiler.Compiler {
	tsc := compiler.NewTsc().WithLogger(logger)
	if root != nil && root.Compiler.Path != "" {
		tsc = tsc.WithBinary(root.Compiler.Path)
	}
	return tsc
}

// withGlobalCompilerOptions layers the configuration's global compiler
// options under the bundle's own. The bundle is not mutated.
func withGlobalCompilerOptions(root *config.Root, b *config.Bundle) *config.Bundle {
	if root == nil || len(root.Compiler.Options) == 0 {
		return b
	}
	merged := maps.Clone(root.Compiler.Options)
	maps.Copy(merged, b.CompilerOptions)
	out := *b
	out.CompilerOptions = merged
	return &out
}
