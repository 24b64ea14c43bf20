package diagfmt

import (
	"path/filepath"

	"seqgen/internal/source"
)

const autoPathLimit = 40

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return f.DisplayPath(fs.BaseDir())
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		if filepath.IsAbs(f.Path) && len(f.Path) > autoPathLimit {
			return filepath.Base(f.Path)
		}
		return f.Path
	}
}
