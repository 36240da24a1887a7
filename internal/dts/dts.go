// Package dts parses the top-level statement structure of TypeScript
// declaration source text. Only the handful of node kinds the bundler
// rewrites are modeled; everything else remains opaque byte ranges, so
// the original formatting survives untouched.
package dts

import "strings"

// Kind discriminates the syntax nodes the bundler cares about.
type Kind int

const (
	// KindOpaque is a statement with no rewritable parts.
	KindOpaque Kind = iota

	// KindImport is an import declaration: `import ... from "m";` or the
	// side-effect form `import "m";`.
	KindImport

	// KindImportEquals is `import x = require("m");` or `import x = A.B;`.
	// Only the former carries a KindRequire child.
	KindImportEquals

	// KindExport is an export declaration: `export { ... } [from "m"];`
	// or `export * from "m";`.
	KindExport

	// KindExportAssign is `export = x;` or `export default x;`.
	KindExportAssign

	// KindNamespace is a namespace or (identifier-named) module declaration
	// with a brace body; its nested statements are parsed as children so
	// module references inside the body can still be rewritten.
	KindNamespace

	// KindDeclareKeyword is a leading `declare` modifier. Its span includes
	// the spaces separating it from the following token, so deleting the
	// node leaves single spacing behind.
	KindDeclareKeyword

	// KindString is a module specifier string literal; Parent identifies
	// the import or export declaration it belongs to.
	KindString

	// KindRequire is an external module reference: the full `require("m")`
	// expression of an import-equals declaration.
	KindRequire
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindImportEquals:
		return "import-equals"
	case KindExport:
		return "export"
	case KindExportAssign:
		return "export-assignment"
	case KindNamespace:
		return "namespace"
	case KindDeclareKeyword:
		return "declare-keyword"
	case KindString:
		return "string"
	case KindRequire:
		return "require"
	}
	return "opaque"
}

// Node is one syntax node. Pos and End are byte offsets into the file text;
// Pos excludes leading trivia (whitespace and comments) and End is exclusive.
type Node struct {
	Kind     Kind
	Pos, End int
	Parent   *Node
	Children []*Node

	// Value is the decoded module specifier for KindString and KindRequire
	// nodes and is empty otherwise.
	Value string

	// Exported marks statements carrying the `export` visibility modifier.
	Exported bool
}

func (n *Node) add(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Require returns the external module reference of an import-equals
// declaration, or nil if the right-hand side is an entity name.
func (n *Node) Require() *Node {
	for _, c := range n.Children {
		if c.Kind == KindRequire {
			return c
		}
	}
	return nil
}

// SourceFile is one parsed declaration file: its path, raw text, and the
// ordered top-level statements. Immutable once produced.
type SourceFile struct {
	Path       string
	Text       string
	Statements []*Node
}

// Specifiers returns the decoded module specifiers referenced by the file,
// in source order, at any nesting depth.
func (f *SourceFile) Specifiers() []string {
	var specs []string
	var walk func(ns []*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			if n.Kind == KindString || n.Kind == KindRequire {
				specs = append(specs, n.Value)
			}
			walk(n.Children)
		}
	}
	walk(f.Statements)
	return specs
}

// IsDeclarationPath reports whether path names a declaration file.
func IsDeclarationPath(path string) bool {
	return strings.HasSuffix(path, ".d.ts")
}
