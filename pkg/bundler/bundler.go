package bundler

import (
	"context"
	"io"

	internalbundler "github.com/dtsbundle/dtsbundle/internal/bundler"
	"github.com/dtsbundle/dtsbundle/internal/compiler"
	"github.com/dtsbundle/dtsbundle/internal/config"
)

// Line terminator names accepted by Options.Eol.
const (
	EolNative = config.EolNative
	EolLF     = config.EolLF
	EolCRLF   = config.EolCRLF
)

// Options configures a single bundle run.
type Options struct {
	// Name is the package namespace prefix of every module id (required).
	Name string

	// BaseDir is the root against which module ids are computed (required).
	// Files outside it never enter the bundle.
	BaseDir string

	// Out is the output artifact path (required). Parent directories are
	// created if absent.
	Out string

	// Files lists entry files or glob patterns, resolved against BaseDir
	// (required).
	Files []string

	// Excludes lists glob patterns, relative to BaseDir, of files to omit.
	Excludes []string

	// Externs are reference-path strings emitted verbatim before the modules.
	Externs []string

	// Main is a module id re-exported under Name as the package entry alias.
	Main string

	// Indent is the indentation unit; one tab when empty.
	Indent string

	// Eol names the line terminator for generated structure lines: EolNative
	// (default), EolLF or EolCRLF.
	Eol string

	// Target is the language level handed to the compiler, e.g. "es2020".
	Target string

	// Jobs bounds concurrent declaration emission; sequential when zero.
	Jobs int

	// CompilerOptions carries additional tsc options by flag name.
	CompilerOptions map[string]any
}

func (o Options) bundle() *config.Bundle {
	return &config.Bundle{
		Name:            o.Name,
		BaseDir:         o.BaseDir,
		Out:             o.Out,
		Files:           o.Files,
		Excludes:        o.Excludes,
		Externs:         o.Externs,
		Main:            o.Main,
		Indent:          o.Indent,
		Eol:             o.Eol,
		Target:          o.Target,
		Jobs:            o.Jobs,
		CompilerOptions: o.CompilerOptions,
	}
}

type runOptions struct {
	output       io.Writer
	progress     func(string)
	compilerPath string
}

// RunOption adjusts a single run beyond the bundle options.
type RunOption func(*runOptions)

// WithOutput redirects the bundle to w instead of Options.Out. Nothing is
// created on disk; the caller keeps ownership of w.
func WithOutput(w io.Writer) RunOption {
	return func(r *runOptions) { r.output = w }
}

// WithProgress registers a callback receiving one human-readable message per
// pipeline step. Messages are informational and never indicate failure.
func WithProgress(fn func(message string)) RunOption {
	return func(r *runOptions) { r.progress = fn }
}

// WithCompilerPath names the tsc binary used to compile plain sources.
func WithCompilerPath(path string) RunOption {
	return func(r *runOptions) { r.compilerPath = path }
}

// Run executes one bundle run and blocks until the artifact is complete.
func Run(ctx context.Context, opts Options, extra ...RunOption) error {
	return configure(opts, extra).Build(ctx)
}

// Module describes one file of a resolved bundle, in emission order.
type Module struct {
	ID       string // module id; empty for ambient files
	File     string // base-relative source path
	External bool
}

// Modules resolves the bundle without writing output and reports every file
// it would contain.
func Modules(ctx context.Context, opts Options, extra ...RunOption) ([]Module, error) {
	ms, err := configure(opts, extra).Modules(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Module, len(ms))
	for i, m := range ms {
		out[i] = Module(m)
	}
	return out, nil
}

func configure(opts Options, extra []RunOption) *internalbundler.Bundler {
	var r runOptions
	for _, o := range extra {
		o(&r)
	}

	b := internalbundler.New().WithOptions(opts.bundle())
	if r.output != nil {
		b = b.WithOutput(r.output)
	}
	if r.progress != nil {
		b = b.WithProgress(r.progress)
	}
	if r.compilerPath != "" {
		b = b.WithCompiler(compiler.NewTsc().WithBinary(r.compilerPath))
	}
	return b
}
