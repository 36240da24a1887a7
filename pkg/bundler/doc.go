// Package bundler joins per-file TypeScript declaration modules into a single
// namespaced declaration artifact.
//
// Every file under the bundle's base directory is addressed by a module id:
// the base-relative path with the TypeScript extension stripped, prefixed
// with the package name. External modules (files with imports or exports)
// become declare module blocks under that id, with their relative specifiers
// rewritten to sibling module ids; ambient files pass through verbatim.
//
// # Basic Usage
//
// Bundle a directory of declaration files into one artifact:
//
//	import "github.com/dtsbundle/dtsbundle/pkg/bundler"
//
//	err := bundler.Run(ctx, bundler.Options{
//	    Name:    "mylib",
//	    BaseDir: "types",
//	    Out:     "dist/mylib.d.ts",
//	    Files:   []string{"**.d.ts"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Inputs
//
// Files lists entry points, as plain paths or glob patterns resolved against
// BaseDir (`*` stays within a path segment, `**` crosses segments). Imports
// are followed: a file reachable from an entry point joins the bundle as long
// as it lives under BaseDir. Excludes drops files from the bundle entirely:
//
//	err := bundler.Run(ctx, bundler.Options{
//	    Name:     "mylib",
//	    BaseDir:  "types",
//	    Out:      "dist/mylib.d.ts",
//	    Files:    []string{"index.d.ts"},
//	    Excludes: []string{"internal/*.d.ts"},
//	})
//
// Plain .ts/.tsx sources may be listed too; their declarations are produced
// by the TypeScript compiler before bundling. The tsc binary must be on PATH
// or named with WithCompilerPath.
//
// # Entry Alias
//
// Main re-exports one bundled module as the package's top-level entry, so
// consumers can import the bare package name:
//
//	err := bundler.Run(ctx, bundler.Options{
//	    Name:    "mylib",
//	    BaseDir: "types",
//	    Out:     "dist/mylib.d.ts",
//	    Files:   []string{"**.d.ts"},
//	    Main:    "mylib/index",
//	})
//
// # Output Control
//
// Eol and Indent control the generated structure lines; the body text of each
// declaration keeps its original bytes, including comments and blank lines.
// WithOutput redirects the bundle to an io.Writer instead of Out, leaving the
// filesystem untouched:
//
//	var buf bytes.Buffer
//	err := bundler.Run(ctx, opts, bundler.WithOutput(&buf))
//
// # Failure Model
//
// A run either produces the complete bundle and closes the output cleanly, or
// it fails. Compilation diagnostics abort the run at the first failing file;
// output already written by a failed run must be discarded by the caller.
//
// # Thread Safety
//
// Each Run is independent. Concurrent runs are safe as long as their outputs
// do not collide.
package bundler
