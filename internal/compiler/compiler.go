// Package compiler abstracts the TypeScript compilation service the bundler
// delegates to: loading source files into an ordered program, and emitting
// declaration text for sources that are not declarations yet. The production
// adapter drives the tsc binary; tests substitute fakes returning canned
// files and diagnostics.
package compiler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dtsbundle/dtsbundle/internal/dts"
)

// Compiler is the capability interface between the bundler and the
// compilation service.
type Compiler interface {
	// Load resolves the entry files and their transitive relative imports
	// into a Program whose files appear in dependency order: a file's
	// dependencies are listed no later than the file itself. Cycles degrade
	// the order but never fail the load.
	Load(ctx context.Context, files []string, opts Options) (*Program, error)

	// Emit produces declaration text for one non-declaration source of p.
	// Diagnostics surface as a *Error.
	Emit(ctx context.Context, p *Program, path string) (string, error)
}

// Program is one resolved compilation: the parsed source files in dependency
// order plus the options they were loaded with.
type Program struct {
	Files   []*dts.SourceFile
	Options Options

	emitOnce sync.Once
	emitted  map[string]string
	emitErr  error
}

// Diagnostic is one compiler finding located in a source file.
type Diagnostic struct {
	File    string
	Line    int
	Column  int
	Code    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s(%d,%d): %s: %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// Error aggregates every diagnostic reported for a failing compilation. The
// run that receives one is over; there is no partial recovery.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return "compilation failed"
	}
	msgs := make([]string, len(e.Diagnostics))
	for i := range e.Diagnostics {
		msgs[i] = e.Diagnostics[i].String()
	}
	return strings.Join(msgs, "\n")
}

var _ error = (*Error)(nil)
var _ Compiler = (*Tsc)(nil)
