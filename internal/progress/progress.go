// Package progress carries human-readable status notifications out of the
// bundling pipeline, and provides the terminal progress bar the CLI shows
// while building multiple bundles.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Func receives one status message per notable pipeline step. Notifications
// are purely informational and never indicate failure; a nil Func is a valid
// no-op.
type Func func(message string)

// Notify invokes fn with the message when fn is non-nil.
func (fn Func) Notify(message string) {
	if fn != nil {
		fn(message)
	}
}

// Bar wraps a terminal progress bar. A nil *Bar is a valid no-op so callers
// can thread it unconditionally.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar returns a bar rendering to w, sized to max steps.
func NewBar(w io.Writer, max int, description string) *Bar {
	return &Bar{bar: progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)}
}

func (b *Bar) Add(n int) {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Add(n)
}

func (b *Bar) Finish() {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}
