// Package rewrite implements a text-preserving syntax rewrite: a pre-order
// walk over parsed nodes that splices replacement text over chosen spans and
// copies every other byte through verbatim. Formatting and comments outside
// replaced spans survive untouched, which is why the bundler uses it instead
// of re-printing the tree.
package rewrite

import (
	"strings"

	"github.com/dtsbundle/dtsbundle/internal/dts"
)

// Replacer decides the fate of one node: return (text, true) to splice text
// over the node's span and skip its subtree, or ("", false) to leave the node
// alone and descend into its children.
type Replacer func(*dts.Node) (string, bool)

// Splice rewrites src by walking stmts in pre-order with a cursor, starting
// at offset zero. Text between the cursor and each visited node is copied
// verbatim. A claimed node contributes its replacement instead of its own
// text and its children are not visited; an unclaimed node is descended into.
// Remaining text after the walk is copied as-is.
//
// Splice keeps no state between calls and is safe to use concurrently on
// distinct files.
func Splice(src string, stmts []*dts.Node, fn Replacer) string {
	var out strings.Builder
	out.Grow(len(src))
	cursor := 0
	for _, n := range stmts {
		cursor = splice(&out, src, n, cursor, fn)
	}
	out.WriteString(src[cursor:])
	return out.String()
}

func splice(out *strings.Builder, src string, n *dts.Node, cursor int, fn Replacer) int {
	if n.Pos > cursor {
		out.WriteString(src[cursor:n.Pos])
		cursor = n.Pos
	}
	if r, ok := fn(n); ok {
		out.WriteString(r)
		return n.End
	}
	for _, c := range n.Children {
		cursor = splice(out, src, c, cursor, fn)
	}
	return cursor
}
