package dts

// IsExternalModule reports whether the file is an external module: at least
// one top-level statement is exported, imports, or re-exports. Anything else
// only augments the global scope (ambient) and needs no module wrapping.
//
// The answer is re-derived on every call and an empty file is not external.
// An entity-name alias (`import x = A.B;`) alone does not make a file
// external; a require reference (`import x = require("m");`) does.
func IsExternalModule(f *SourceFile) bool {
	for _, s := range f.Statements {
		switch {
		case s.Exported:
			return true
		case s.Kind == KindImport, s.Kind == KindExport, s.Kind == KindExportAssign:
			return true
		case s.Kind == KindImportEquals && s.Require() != nil:
			return true
		}
	}
	return false
}
