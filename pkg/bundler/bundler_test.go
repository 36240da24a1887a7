package bundler_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dtsbundle/dtsbundle/internal/test/tempfs"
	"github.com/dtsbundle/dtsbundle/pkg/bundler"
)

func TestRun(t *testing.T) {
	files := map[string]string{
		"index.d.ts":    "export * from './lib/calc';\n",
		"lib/calc.d.ts": "export declare function add(a: number, b: number): number;\n",
	}
	tempfs.WithTempFS(t, files, func(t *testing.T, root string) {
		var buf bytes.Buffer
		var msgs []string
		err := bundler.Run(context.Background(), bundler.Options{
			Name:    "calc",
			BaseDir: root,
			Out:     filepath.Join(root, "dist", "calc.d.ts"),
			Files:   []string{"index.d.ts"},
			Main:    "calc/index",
		}, bundler.WithOutput(&buf), bundler.WithProgress(func(m string) { msgs = append(msgs, m) }))
		if err != nil {
			t.Fatal(err)
		}

		out := buf.String()
		for _, want := range []string{
			"declare module 'calc/lib/calc' {",
			"declare module 'calc/index' {",
			"export * from 'calc/lib/calc';",
			"declare module 'calc' {\n\texport * from 'calc/index';\n}\n",
		} {
			if !strings.Contains(out, want) {
				t.Fatalf("expected bundle to contain %q, got:\n%s", want, out)
			}
		}
		if len(msgs) == 0 {
			t.Fatal("expected progress notifications")
		}
	})
}

func TestModules(t *testing.T) {
	files := map[string]string{
		"index.d.ts":   "export declare const x: number;\n",
		"globals.d.ts": "declare function assert(cond: boolean): void;\n",
	}
	tempfs.WithTempFS(t, files, func(t *testing.T, root string) {
		got, err := bundler.Modules(context.Background(), bundler.Options{
			Name:    "pkg",
			BaseDir: root,
			Out:     filepath.Join(root, "out.d.ts"),
			Files:   []string{"index.d.ts", "globals.d.ts"},
		})
		if err != nil {
			t.Fatal(err)
		}

		exp := []bundler.Module{
			{ID: "pkg/index", File: "index.d.ts", External: true},
			{File: "globals.d.ts", External: false},
		}
		if diff := cmp.Diff(exp, got); diff != "" {
			t.Fatalf("unexpected modules (-want,+got):\n%s", diff)
		}
	})
}
