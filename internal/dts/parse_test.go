package dts_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dtsbundle/dtsbundle/internal/dts"
)

func TestParseStatementKinds(t *testing.T) {
	cases := []struct {
		note     string
		text     string
		exp      []dts.Kind
		exported []bool
	}{
		{
			note:     "side effect import",
			text:     `import './polyfill';`,
			exp:      []dts.Kind{dts.KindImport},
			exported: []bool{false},
		},
		{
			note:     "named import",
			text:     `import { f, g } from './a';`,
			exp:      []dts.Kind{dts.KindImport},
			exported: []bool{false},
		},
		{
			note:     "namespace import",
			text:     `import * as a from './a';`,
			exp:      []dts.Kind{dts.KindImport},
			exported: []bool{false},
		},
		{
			note:     "type only import",
			text:     `import type { T } from './types';`,
			exp:      []dts.Kind{dts.KindImport},
			exported: []bool{false},
		},
		{
			note:     "import equals require",
			text:     `import fs = require('./fs');`,
			exp:      []dts.Kind{dts.KindImportEquals},
			exported: []bool{false},
		},
		{
			note:     "import equals entity name",
			text:     `import B = A.B;`,
			exp:      []dts.Kind{dts.KindImportEquals},
			exported: []bool{false},
		},
		{
			note:     "export assignment",
			text:     `export = loader;`,
			exp:      []dts.Kind{dts.KindExportAssign},
			exported: []bool{true},
		},
		{
			note:     "export default",
			text:     `export default loader;`,
			exp:      []dts.Kind{dts.KindExportAssign},
			exported: []bool{true},
		},
		{
			note:     "reexport all",
			text:     `export * from './a';`,
			exp:      []dts.Kind{dts.KindExport},
			exported: []bool{true},
		},
		{
			note:     "reexport named",
			text:     `export { f } from './a';`,
			exp:      []dts.Kind{dts.KindExport},
			exported: []bool{true},
		},
		{
			note:     "export clause without specifier",
			text:     `export { f };`,
			exp:      []dts.Kind{dts.KindExport},
			exported: []bool{true},
		},
		{
			note:     "type only reexport",
			text:     `export type { T } from './types';`,
			exp:      []dts.Kind{dts.KindExport},
			exported: []bool{true},
		},
		{
			note:     "exported declaration",
			text:     `export declare function g(): void;`,
			exp:      []dts.Kind{dts.KindOpaque},
			exported: []bool{true},
		},
		{
			note:     "ambient function",
			text:     `declare function f(): void;`,
			exp:      []dts.Kind{dts.KindOpaque},
			exported: []bool{false},
		},
		{
			note:     "interface with body",
			text:     "interface Foo {\n\tbar: string;\n}",
			exp:      []dts.Kind{dts.KindOpaque},
			exported: []bool{false},
		},
		{
			note:     "namespace declaration",
			text:     "declare namespace A.B {\n\tconst x: number;\n}",
			exp:      []dts.Kind{dts.KindNamespace},
			exported: []bool{false},
		},
		{
			note:     "ambient module stays opaque",
			text:     "declare module 'foo' {\n\texport function f(): void;\n}",
			exp:      []dts.Kind{dts.KindOpaque},
			exported: []bool{false},
		},
		{
			note: "statement sequence",
			text: "import { f } from './a';\n\nexport declare class C {\n\tmethod(): void;\n}\nexport = C;\n",
			exp: []dts.Kind{
				dts.KindImport,
				dts.KindOpaque,
				dts.KindExportAssign,
			},
			exported: []bool{false, true, true},
		},
		{
			note:     "comments between statements",
			text:     "// import './not-real';\n/* export = nope; */\ndeclare var x: number;",
			exp:      []dts.Kind{dts.KindOpaque},
			exported: []bool{false},
		},
		{
			note:     "const enum has a body",
			text:     "declare const enum E { A, B }\nexport = E;",
			exp:      []dts.Kind{dts.KindOpaque, dts.KindExportAssign},
			exported: []bool{false, true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			f := dts.Parse("test.d.ts", tc.text)
			var kinds []dts.Kind
			var exported []bool
			for _, s := range f.Statements {
				kinds = append(kinds, s.Kind)
				exported = append(exported, s.Exported)
			}
			if diff := cmp.Diff(tc.exp, kinds); diff != "" {
				t.Errorf("kinds: (-want,+got)\n%s", diff)
			}
			if diff := cmp.Diff(tc.exported, exported); diff != "" {
				t.Errorf("exported flags: (-want,+got)\n%s", diff)
			}
		})
	}
}

func TestParseSpecifierSpans(t *testing.T) {
	cases := []struct {
		note string
		text string
		span string // exact source text the specifier node must cover
		val  string
	}{
		{
			note: "single quoted import",
			text: `import { f } from './a';`,
			span: `'./a'`,
			val:  "./a",
		},
		{
			note: "double quoted import",
			text: `import { f } from "./a";`,
			span: `"./a"`,
			val:  "./a",
		},
		{
			note: "reexport",
			text: `export * from '../lib/util';`,
			span: `'../lib/util'`,
			val:  "../lib/util",
		},
		{
			note: "side effect import",
			text: `import "./shim";`,
			span: `"./shim"`,
			val:  "./shim",
		},
		{
			note: "bare package specifier",
			text: `import { x } from 'lodash';`,
			span: `'lodash'`,
			val:  "lodash",
		},
	}

	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			f := dts.Parse("test.d.ts", tc.text)
			if len(f.Statements) != 1 {
				t.Fatalf("expected one statement, got %d", len(f.Statements))
			}
			var spec *dts.Node
			for _, c := range f.Statements[0].Children {
				if c.Kind == dts.KindString {
					spec = c
				}
			}
			if spec == nil {
				t.Fatal("no specifier node")
			}
			if got := tc.text[spec.Pos:spec.End]; got != tc.span {
				t.Errorf("span: got %q, want %q", got, tc.span)
			}
			if spec.Value != tc.val {
				t.Errorf("value: got %q, want %q", spec.Value, tc.val)
			}
			if spec.Parent != f.Statements[0] {
				t.Error("specifier parent is not its statement")
			}
		})
	}
}

func TestParseRequireSpan(t *testing.T) {
	text := `import fs = require( './fs' );`
	f := dts.Parse("test.d.ts", text)
	if len(f.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(f.Statements))
	}
	req := f.Statements[0].Require()
	if req == nil {
		t.Fatal("no require node")
	}
	want := `require( './fs' )`
	if got := text[req.Pos:req.End]; got != want {
		t.Errorf("span: got %q, want %q", got, want)
	}
	if req.Value != "./fs" {
		t.Errorf("value: got %q, want %q", req.Value, "./fs")
	}
}

func TestParseDeclareKeywordSpan(t *testing.T) {
	cases := []struct {
		note string
		text string
		span string
	}{
		{
			note: "leading declare",
			text: "declare function f(): void;",
			span: "declare ",
		},
		{
			note: "export declare",
			text: "export declare  function g(): void;",
			span: "declare  ",
		},
	}

	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			f := dts.Parse("test.d.ts", tc.text)
			var kw *dts.Node
			for _, c := range f.Statements[0].Children {
				if c.Kind == dts.KindDeclareKeyword {
					kw = c
				}
			}
			if kw == nil {
				t.Fatal("no declare keyword node")
			}
			if got := tc.text[kw.Pos:kw.End]; got != tc.span {
				t.Errorf("span: got %q, want %q", got, tc.span)
			}
		})
	}
}

func TestParseNestedRequire(t *testing.T) {
	text := "declare namespace loader {\n\timport fs = require('./fs');\n\tconst x: number;\n}\n"
	f := dts.Parse("test.d.ts", text)
	if len(f.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(f.Statements))
	}
	ns := f.Statements[0]
	if ns.Kind != dts.KindNamespace {
		t.Fatalf("expected namespace, got %v", ns.Kind)
	}
	var nested *dts.Node
	for _, c := range ns.Children {
		if c.Kind == dts.KindImportEquals {
			nested = c
		}
	}
	if nested == nil {
		t.Fatal("nested import-equals not parsed")
	}
	req := nested.Require()
	if req == nil {
		t.Fatal("nested require not parsed")
	}
	if got := text[req.Pos:req.End]; got != "require('./fs')" {
		t.Errorf("span: got %q", got)
	}
	// no declare keyword nodes below the top level
	for _, c := range nested.Children {
		if c.Kind == dts.KindDeclareKeyword {
			t.Error("unexpected declare keyword node in namespace body")
		}
	}
}

func TestParseLeavesTrickyTextOpaque(t *testing.T) {
	cases := []struct {
		note string
		text string
	}{
		{
			note: "braces inside string literal type",
			text: "interface A {\n\tm(s: '}'): void;\n}",
		},
		{
			note: "template literal type with substitution",
			text: "type Route = `/users/${string}`;",
		},
		{
			note: "template with nested braces",
			text: "type T = `a${'}' | '{'}b`;",
		},
		{
			note: "block comment with statement text",
			text: "interface B {\n\t/* import { x } from './fake'; */\n\tn: number;\n}",
		},
	}

	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			f := dts.Parse("test.d.ts", tc.text)
			if len(f.Statements) != 1 {
				t.Fatalf("expected one statement, got %d", len(f.Statements))
			}
			s := f.Statements[0]
			if s.Kind != dts.KindOpaque {
				t.Fatalf("expected opaque, got %v", s.Kind)
			}
			if got := tc.text[s.Pos:s.End]; strings.TrimRight(got, "\n") != strings.TrimRight(tc.text, "\n") {
				t.Errorf("statement span %q does not cover input", got)
			}
			if len(f.Specifiers()) != 0 {
				t.Errorf("unexpected specifiers: %v", f.Specifiers())
			}
		})
	}
}

func TestSpecifiers(t *testing.T) {
	text := "import { a } from './a';\nimport x = require('./x');\nexport * from './z';\nimport { l } from 'lodash';\n"
	f := dts.Parse("test.d.ts", text)
	exp := []string{"./a", "./x", "./z", "lodash"}
	if diff := cmp.Diff(exp, f.Specifiers()); diff != "" {
		t.Errorf("specifiers: (-want,+got)\n%s", diff)
	}
}
