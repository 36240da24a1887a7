package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dtsbundle/dtsbundle/internal/config"
	"github.com/dtsbundle/dtsbundle/internal/test/tempfs"
)

func TestBundleFromFlags(t *testing.T) {
	f := bundleFlags{
		name:     "mylib",
		baseDir:  "types",
		out:      "dist/mylib.d.ts",
		excludes: []string{"internal/*.d.ts"},
		main:     "mylib/index",
		eol:      eolCRLF,
		jobs:     2,
	}

	b, err := f.bundle([]string{"index.d.ts", "**.d.ts"})
	if err != nil {
		t.Fatal(err)
	}

	if b.Name != "mylib" || b.BaseDir != "types" || b.Out != "dist/mylib.d.ts" {
		t.Fatalf("unexpected bundle %+v", b)
	}
	if diff := cmp.Diff([]string{"index.d.ts", "**.d.ts"}, b.Files); diff != "" {
		t.Fatalf("unexpected files (-want,+got):\n%s", diff)
	}
	if b.Eol != config.EolCRLF {
		t.Fatalf("expected eol %q, got %q", config.EolCRLF, b.Eol)
	}
	if b.Jobs != 2 {
		t.Fatalf("expected 2 jobs, got %d", b.Jobs)
	}
}

func TestBundleFromFlagsIncomplete(t *testing.T) {
	f := bundleFlags{name: "mylib", baseDir: "."}

	_, err := f.bundle([]string{"index.d.ts"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "out is required") {
		t.Fatalf("unexpected error %q", err.Error())
	}
}

func TestSelectBundles(t *testing.T) {
	root := &config.Root{Bundles: map[string]*config.Bundle{
		"beta":  {Name: "beta"},
		"alpha": {Name: "alpha"},
	}}

	all, err := selectBundles(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(all))
	for i, b := range all {
		names[i] = b.Name
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, names); diff != "" {
		t.Fatalf("unexpected selection (-want,+got):\n%s", diff)
	}

	one, err := selectBundles(root, []string{"beta"})
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].Name != "beta" {
		t.Fatalf("unexpected selection %v", one)
	}

	_, err = selectBundles(root, []string{"gamma"})
	if err == nil {
		t.Fatal("expected error")
	}
	if exp := `bundle "gamma" not found in configuration`; err.Error() != exp {
		t.Fatalf("expected error %q, got %q", exp, err.Error())
	}
}

func TestLoadConfigMergesPaths(t *testing.T) {
	files := map[string]string{
		"conf/a.yaml": `
bundles:
  mylib:
    base_dir: types
    out: dist/mylib.d.ts
    files: ["**.d.ts"]
`,
		"conf/b.yaml": `
compiler:
  options:
    strict: true
`,
	}
	tempfs.WithTempFS(t, files, func(t *testing.T, root string) {
		cfg, err := loadConfig([]string{filepath.Join(root, "conf")})
		if err != nil {
			t.Fatal(err)
		}

		if _, ok := cfg.Bundles["mylib"]; !ok {
			t.Fatalf("expected bundle mylib, got %v", cfg.Bundles)
		}
		if v, ok := cfg.Compiler.Options["strict"]; !ok || v != true {
			t.Fatalf("expected strict compiler option, got %v", cfg.Compiler.Options)
		}
	})
}

func TestWithGlobalCompilerOptions(t *testing.T) {
	root := &config.Root{Compiler: config.Compiler{
		Options: map[string]any{"strict": true, "skipLibCheck": true},
	}}
	b := &config.Bundle{Name: "mylib", CompilerOptions: map[string]any{"strict": false}}

	merged := withGlobalCompilerOptions(root, b)

	exp := map[string]any{"strict": false, "skipLibCheck": true}
	if diff := cmp.Diff(exp, merged.CompilerOptions); diff != "" {
		t.Fatalf("unexpected options (-want,+got):\n%s", diff)
	}
	// The configured bundle itself stays untouched.
	if diff := cmp.Diff(map[string]any{"strict": false}, b.CompilerOptions); diff != "" {
		t.Fatalf("bundle mutated (-want,+got):\n%s", diff)
	}
}
