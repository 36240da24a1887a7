// Package moduleid maps filesystem paths to the namespace-qualified module
// identifiers a bundle addresses its contents by. Ids use forward slashes on
// every platform and strip the TypeScript extension, so they are stable and
// injective over the input file set.
package moduleid

import (
	"path"
	"path/filepath"
	"strings"
)

// From maps a file path under baseDir to its module id: the base-relative
// path with separators normalized and the extension stripped, prefixed with
// the package name. A path outside baseDir is a caller precondition
// violation; callers filter with Rel first.
func From(name, baseDir, filePath string) string {
	rel, _ := Rel(baseDir, filePath)
	return path.Join(name, TrimExt(rel))
}

// Rel returns the slash-normalized path of filePath relative to baseDir and
// whether filePath falls under baseDir at all.
func Rel(baseDir, filePath string) (string, bool) {
	rel, err := filepath.Rel(baseDir, filePath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return rel, false
	}
	return rel, true
}

// Resolve resolves a relative import specifier against the directory of the
// importing module id. Resolution happens purely in module-id space; the
// filesystem is never consulted.
func Resolve(sourceID, specifier string) string {
	return TrimExt(path.Join(path.Dir(sourceID), specifier))
}

// TrimExt strips a trailing TypeScript extension, treating ".d.ts" as one
// unit. Other suffixes stay: specifiers like "./util.v2" keep their dots.
func TrimExt(p string) string {
	for _, ext := range []string{".d.ts", ".tsx", ".ts"} {
		if strings.HasSuffix(p, ext) {
			return p[:len(p)-len(ext)]
		}
	}
	return p
}
