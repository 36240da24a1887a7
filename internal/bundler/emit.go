package bundler

import (
	"strings"

	"github.com/dtsbundle/dtsbundle/internal/dts"
	"github.com/dtsbundle/dtsbundle/internal/moduleid"
	"github.com/dtsbundle/dtsbundle/internal/rewrite"
)

// emitter renders declaration files as output blocks. External modules are
// wrapped in declare module blocks with their relative specifiers rewritten
// to module ids; ambient files pass through verbatim. The eol and indent
// settings govern generated structure only, never the body text.
type emitter struct {
	name    string
	baseDir string
	eol     string
	indent  string
}

func (e emitter) banner() string {
	return "// Code generated by dtsbundle. DO NOT EDIT." + e.eol +
		"// This file bundles per-module declaration files into a single artifact." + e.eol +
		"// Regenerate it with 'dtsbundle build' after changing the sources." + e.eol
}

func (e emitter) extern(path string) string {
	return `/// <reference path="` + path + `" />` + e.eol
}

func (e emitter) alias(main string) string {
	return "declare module '" + e.name + "' {" + e.eol +
		e.indent + "export * from '" + main + "';" + e.eol +
		"}" + e.eol
}

// render produces the output block for one declaration file.
func (e emitter) render(f *dts.SourceFile) string {
	if !dts.IsExternalModule(f) {
		if strings.HasSuffix(f.Text, "\n") {
			return f.Text
		}
		return f.Text + e.eol
	}

	id := moduleid.From(e.name, e.baseDir, f.Path)
	body := rewrite.Splice(f.Text, f.Statements, e.replacer(id))
	body = strings.TrimRight(e.reindent(body), " \t\r\n")

	var sb strings.Builder
	sb.Grow(len(body) + 64)
	sb.WriteString("declare module '")
	sb.WriteString(id)
	sb.WriteString("' {")
	sb.WriteString(e.eol)
	sb.WriteString(e.indent)
	sb.WriteString(body)
	sb.WriteString(e.eol)
	sb.WriteString("}")
	sb.WriteString(e.eol)
	return sb.String()
}

// replacer rewrites the nodes that tie a module to its on-disk location:
// relative require references, relative import/export specifiers, and the
// declare keywords that are redundant inside an explicit module block.
// Everything else recurses so the surrounding text survives byte-for-byte.
func (e emitter) replacer(id string) rewrite.Replacer {
	return func(n *dts.Node) (string, bool) {
		switch n.Kind {
		case dts.KindRequire:
			if strings.HasPrefix(n.Value, ".") {
				return "require('" + moduleid.Resolve(id, n.Value) + "')", true
			}
		case dts.KindDeclareKeyword:
			return "", true
		case dts.KindString:
			if n.Parent == nil {
				break
			}
			switch n.Parent.Kind {
			case dts.KindImport, dts.KindExport:
				if strings.HasPrefix(n.Value, ".") {
					return "'" + moduleid.Resolve(id, n.Value) + "'", true
				}
			}
		}
		return "", false
	}
}

// reindent appends one indent unit after every line break that is not
// immediately followed by another line break or the end of the text, nesting
// the body one level inside its module block.
func (e emitter) reindent(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/16)
	for i := 0; i < len(text); i++ {
		c := text[i]
		sb.WriteByte(c)
		if c != '\n' || i+1 == len(text) {
			continue
		}
		if next := text[i+1]; next == '\n' || next == '\r' {
			continue
		}
		sb.WriteString(e.indent)
	}
	return sb.String()
}
