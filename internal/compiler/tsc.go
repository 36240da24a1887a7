package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtsbundle/dtsbundle/internal/dts"
	"github.com/dtsbundle/dtsbundle/internal/logging"
)

// Tsc is the production Compiler backed by the TypeScript compiler binary.
// Declaration files are parsed in-process; the binary is only executed when a
// program contains sources that still need declaration emit, and then exactly
// once per program.
type Tsc struct {
	bin    string
	logger *logging.Logger
	cache  *parseCache
}

func NewTsc() *Tsc {
	return &Tsc{
		bin:    "tsc",
		logger: logging.NewNopLogger(),
		cache:  newParseCache(parseCacheSize),
	}
}

// WithBinary overrides the compiler executable (path or name resolved via
// PATH).
func (t *Tsc) WithBinary(bin string) *Tsc {
	if bin != "" {
		t.bin = bin
	}
	return t
}

func (t *Tsc) WithLogger(logger *logging.Logger) *Tsc {
	t.logger = logger
	return t
}

// Load parses the given files and their transitive relative imports,
// returning them in dependency order. Specifiers that do not resolve to a
// file on disk are assumed to name externals and are skipped. Import cycles
// are cut at the first revisited file.
func (t *Tsc) Load(ctx context.Context, files []string, opts Options) (*Program, error) {
	var (
		order []*dts.SourceFile
		seen  = map[string]bool{}
	)

	var visit func(path string) error
	visit = func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if seen[path] {
			return nil
		}
		seen[path] = true

		f, err := t.cache.get(path)
		if err != nil {
			return err
		}

		for _, spec := range f.Specifiers() {
			if !strings.HasPrefix(spec, ".") {
				continue
			}
			dep, ok := resolveSpecifier(path, spec)
			if !ok {
				t.logger.Debugf("Cannot resolve %q imported by %s.", spec, path)
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		order = append(order, f)
		return nil
	}

	for _, file := range files {
		if err := visit(filepath.Clean(file)); err != nil {
			return nil, err
		}
	}

	return &Program{Files: order, Options: opts}, nil
}

// Emit returns the declaration text for one non-declaration source of p. The
// first call compiles every such source in a single compiler run; subsequent
// calls serve from the result.
func (t *Tsc) Emit(ctx context.Context, p *Program, path string) (string, error) {
	p.emitOnce.Do(func() {
		p.emitted, p.emitErr = t.compile(ctx, p)
	})
	if p.emitErr != nil {
		return "", p.emitErr
	}
	out, ok := p.emitted[filepath.Clean(path)]
	if !ok {
		return "", fmt.Errorf("no declaration output for %s", path)
	}
	return out, nil
}

func (t *Tsc) compile(ctx context.Context, p *Program) (map[string]string, error) {
	var inputs []string
	for _, f := range p.Files {
		if !dts.IsDeclarationPath(f.Path) {
			inputs = append(inputs, f.Path)
		}
	}

	emitted := map[string]string{}
	if len(inputs) == 0 {
		return emitted, nil
	}

	rootDir := p.Options.RootDir
	if rootDir == "" {
		rootDir = commonDir(inputs)
	}

	outDir, err := os.MkdirTemp("", "dtsbundle-tsc-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(outDir)

	args := []string{"--declaration", "--emitDeclarationOnly", "--outDir", outDir, "--rootDir", rootDir}
	args = append(args, p.Options.args()...)
	args = append(args, inputs...)

	t.logger.Debugf("Running %s with %d input(s).", t.bin, len(inputs))

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, t.bin, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		if diags := parseDiagnostics(buf.String()); len(diags) > 0 {
			return nil, &Error{Diagnostics: diags}
		}
		if msg := strings.TrimSpace(buf.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", t.bin, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", t.bin, err)
	}

	for _, input := range inputs {
		rel, err := filepath.Rel(rootDir, input)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(outDir, declarationName(rel)))
		if err != nil {
			return nil, fmt.Errorf("read emitted declaration for %s: %w", input, err)
		}
		emitted[input] = string(data)
	}

	return emitted, nil
}

var diagnosticPattern = regexp.MustCompile(`^(.+)\((\d+),(\d+)\): (?:error|warning) (TS\d+): (.*)$`)

// parseDiagnostics extracts file-located findings from compiler output.
// Continuation lines of multi-line messages are folded into the preceding
// diagnostic.
func parseDiagnostics(out string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		m := diagnosticPattern.FindStringSubmatch(line)
		if m == nil {
			if len(diags) > 0 && strings.HasPrefix(line, " ") {
				diags[len(diags)-1].Message += "\n" + line
			}
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		colNo, _ := strconv.Atoi(m[3])
		diags = append(diags, Diagnostic{
			File:    m[1],
			Line:    lineNo,
			Column:  colNo,
			Code:    m[4],
			Message: m[5],
		})
	}
	return diags
}

// resolveSpecifier maps a relative import specifier to a file on disk,
// trying the specifier verbatim when it carries a known extension, then the
// extension candidates, then a directory index.
func resolveSpecifier(fromPath, spec string) (string, bool) {
	base := filepath.Join(filepath.Dir(fromPath), filepath.FromSlash(spec))

	var candidates []string
	switch {
	case strings.HasSuffix(spec, ".d.ts"), strings.HasSuffix(spec, ".ts"), strings.HasSuffix(spec, ".tsx"):
		candidates = []string{base}
	default:
		candidates = []string{base + ".d.ts", base + ".ts", base + ".tsx", filepath.Join(base, "index.d.ts")}
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return filepath.Clean(c), true
		}
	}
	return "", false
}

func declarationName(path string) string {
	switch {
	case strings.HasSuffix(path, ".d.ts"):
		return path
	case strings.HasSuffix(path, ".tsx"):
		return strings.TrimSuffix(path, ".tsx") + ".d.ts"
	case strings.HasSuffix(path, ".ts"):
		return strings.TrimSuffix(path, ".ts") + ".d.ts"
	}
	return path + ".d.ts"
}

// commonDir returns the longest directory shared by all paths. It mirrors
// the compiler's common source directory computation for programs loaded
// without an explicit root.
func commonDir(paths []string) string {
	sep := string(filepath.Separator)
	common := strings.Split(filepath.Dir(paths[0]), sep)
	for _, p := range paths[1:] {
		parts := strings.Split(filepath.Dir(p), sep)
		i := 0
		for i < len(common) && i < len(parts) && common[i] == parts[i] {
			i++
		}
		common = common[:i]
	}
	switch dir := strings.Join(common, sep); {
	case dir != "":
		return dir
	case len(common) > 0: // shared the filesystem root only
		return sep
	}
	return "."
}
