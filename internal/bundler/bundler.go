// Package bundler assembles per-file TypeScript declaration modules into a
// single namespaced declaration artifact. Files under the bundle's base
// directory become declare module blocks addressed by module id; ambient
// files pass through verbatim; source files are compiled first through the
// compiler collaborator.
package bundler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dtsbundle/dtsbundle/internal/compiler"
	"github.com/dtsbundle/dtsbundle/internal/config"
	"github.com/dtsbundle/dtsbundle/internal/dts"
	"github.com/dtsbundle/dtsbundle/internal/fs"
	"github.com/dtsbundle/dtsbundle/internal/logging"
	"github.com/dtsbundle/dtsbundle/internal/moduleid"
	"github.com/dtsbundle/dtsbundle/internal/pool"
	"github.com/dtsbundle/dtsbundle/internal/progress"
)

type Bundler struct {
	opts     *config.Bundle
	comp     compiler.Compiler
	output   io.Writer
	logger   *logging.Logger
	progress progress.Func
}

func New() *Bundler {
	return &Bundler{logger: logging.NewNopLogger()}
}

func (b *Bundler) WithOptions(opts *config.Bundle) *Bundler {
	b.opts = opts
	return b
}

// WithCompiler overrides the compilation collaborator. The default is a Tsc
// adapter sharing the bundler's logger.
func (b *Bundler) WithCompiler(c compiler.Compiler) *Bundler {
	b.comp = c
	return b
}

// WithOutput redirects the bundle to w instead of the configured output
// file. The caller keeps ownership of w; nothing is created on disk.
func (b *Bundler) WithOutput(w io.Writer) *Bundler {
	b.output = w
	return b
}

func (b *Bundler) WithLogger(logger *logging.Logger) *Bundler {
	b.logger = logger
	return b
}

func (b *Bundler) WithProgress(fn progress.Func) *Bundler {
	b.progress = fn
	return b
}

type ModuleConflictErr struct {
	ID    string
	Files []string
}

func (err *ModuleConflictErr) Error() string {
	lines := []string{fmt.Sprintf("module id %q produced by multiple files", err.ID)}
	for _, f := range err.Files {
		lines = append(lines, "- "+f)
	}
	return strings.Join(lines, "\n")
}

// Module describes one file of a resolved bundle, in emission order.
type Module struct {
	ID       string // module id; empty for ambient files
	File     string // base-relative source path
	External bool
}

// run carries the state shared by Build and Modules once the bundle options
// have been resolved against the filesystem.
type run struct {
	baseDir  string
	emitter  emitter
	excludes *fs.Matcher
	comp     compiler.Compiler
	program  *compiler.Program
}

// candidate is one program file that survived filtering, tagged with its
// base-relative path and module id.
type candidate struct {
	file *dts.SourceFile
	rel  string
	id   string
}

// Build produces the bundle. The output file is created (parent directories
// included) unless WithOutput redirected the sink. The sink is closed exactly
// once on every exit path; output written by a failed run stays behind and
// must be treated as invalid by the caller.
func (b *Bundler) Build(ctx context.Context) error {
	r, err := b.prepare(ctx)
	if err != nil {
		return err
	}

	sink := b.output
	var f *os.File
	if sink == nil {
		dir := filepath.Dir(b.opts.Out)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
		f, err = os.Create(b.opts.Out)
		if err != nil {
			return fmt.Errorf("failed to open output file %s: %w", b.opts.Out, err)
		}
		sink = f
	}

	err = b.write(ctx, r, sink)

	if f != nil {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", b.opts.Out, cerr)
		}
	}
	return err
}

// Modules resolves the bundle's program and reports every file the bundle
// would emit, without producing any output.
func (b *Bundler) Modules(ctx context.Context) ([]Module, error) {
	r, err := b.prepare(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := b.collect(r)
	if err != nil {
		return nil, err
	}
	modules := make([]Module, len(candidates))
	for i, c := range candidates {
		modules[i] = Module{File: c.rel, External: dts.IsExternalModule(c.file)}
		if modules[i].External {
			modules[i].ID = c.id
		}
	}
	return modules, nil
}

// prepare validates the options, resolves the input file set and hands it to
// the compiler collaborator for dependency resolution.
func (b *Bundler) prepare(ctx context.Context) (*run, error) {
	if b.opts == nil {
		return nil, errors.New("bundle options missing")
	}
	if err := b.opts.Complete(); err != nil {
		return nil, err
	}

	baseDir, err := filepath.Abs(b.opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", b.opts.BaseDir, err)
	}

	excludes, err := fs.NewMatcher(b.opts.Excludes)
	if err != nil {
		return nil, err
	}

	files, err := fs.Expand(baseDir, b.opts.Files)
	if err != nil {
		return nil, err
	}
	inputs := make([]string, 0, len(files))
	for _, file := range files {
		if rel, ok := moduleid.Rel(baseDir, file); ok && excludes.Match(rel) {
			b.progress.Notify("Excluding " + rel)
			continue
		}
		inputs = append(inputs, file)
	}

	copts, err := compiler.DecodeOptions(b.opts.CompilerOptions)
	if err != nil {
		return nil, err
	}
	if b.opts.Target != "" {
		copts.Target = b.opts.Target
	}
	if copts.RootDir == "" {
		copts.RootDir = baseDir
	}

	comp := b.comp
	if comp == nil {
		comp = compiler.NewTsc().WithLogger(b.logger)
	}

	program, err := comp.Load(ctx, inputs, copts)
	if err != nil {
		return nil, err
	}

	return &run{
		baseDir: baseDir,
		emitter: emitter{
			name:    b.opts.Name,
			baseDir: baseDir,
			eol:     eol(b.opts.Eol),
			indent:  cmp.Or(b.opts.Indent, "\t"),
		},
		excludes: excludes,
		comp:     comp,
		program:  program,
	}, nil
}

// collect filters the program's files down to emission candidates, keeping
// the compiler-reported order. Transitively loaded files outside the base
// directory and excluded files are dropped; two files mapping to the same
// module id abort the run.
func (b *Bundler) collect(r *run) ([]candidate, error) {
	seen := map[string]string{}
	var out []candidate
	for _, f := range r.program.Files {
		rel, ok := moduleid.Rel(r.baseDir, f.Path)
		if !ok {
			b.logger.Debugf("Skipping %s: outside base directory %s.", f.Path, r.baseDir)
			continue
		}
		if r.excludes.Match(rel) {
			b.logger.Debugf("Skipping excluded file %s.", rel)
			continue
		}
		id := moduleid.From(b.opts.Name, r.baseDir, f.Path)
		if prev, ok := seen[id]; ok {
			return nil, &ModuleConflictErr{ID: id, Files: []string{prev, rel}}
		}
		seen[id] = rel
		out = append(out, candidate{file: f, rel: rel, id: id})
	}
	return out, nil
}

func (b *Bundler) write(ctx context.Context, r *run, sink io.Writer) error {
	candidates, err := b.collect(r)
	if err != nil {
		return err
	}

	// Declaration text may be rendered concurrently, but blocks land in the
	// sink in the collected order.
	blocks, err := pool.Map(ctx, max(b.opts.Jobs, 1), candidates, func(ctx context.Context, c candidate) (string, error) {
		f := c.file
		if !dts.IsDeclarationPath(f.Path) {
			text, err := r.comp.Emit(ctx, r.program, f.Path)
			if err != nil {
				return "", err
			}
			f = dts.Parse(f.Path, text)
		}
		return r.emitter.render(f), nil
	})
	if err != nil {
		return err
	}

	w := &errWriter{w: sink}
	w.WriteString(r.emitter.banner())
	for _, extern := range b.opts.Externs {
		b.progress.Notify("Referencing " + extern)
		w.WriteString(r.emitter.extern(extern))
	}
	for i, c := range candidates {
		b.progress.Notify("Processing " + c.rel)
		w.WriteString(blocks[i])
		if w.err != nil {
			break
		}
	}
	if b.opts.Main != "" && w.err == nil {
		b.progress.Notify("Aliasing main module " + b.opts.Main)
		w.WriteString(r.emitter.alias(b.opts.Main))
	}
	if w.err != nil {
		return fmt.Errorf("failed to write bundle: %w", w.err)
	}
	return nil
}

// eol maps a configured line terminator name to its byte sequence. The
// default follows the host platform.
func eol(name string) string {
	switch name {
	case config.EolLF:
		return "\n"
	case config.EolCRLF:
		return "\r\n"
	}
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// errWriter keeps the first write error so the assembly loop stays free of
// per-line error checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) WriteString(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}
