// Package pipeline orchestrates the conversion of an MDX docs tree
// into per-platform markdown: locating the workspace, running the
// transform chain on each document, and walking the source tree.
package pipeline

import (
	"os"
	"path/filepath"
)

// WorkspaceRoot walks upward from a document looking for the directory
// that contains the src marker directory. A document already inside
// src resolves to src's parent. When no marker is found before the
// filesystem root, the document's own directory is the fallback; the
// search never errors.
func WorkspaceRoot(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}

	for dir := filepath.Dir(abs); ; {
		if info, err := os.Stat(filepath.Join(dir, "src")); err == nil && info.IsDir() {
			return dir
		}
		if filepath.Base(dir) == "src" {
			return filepath.Dir(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Dir(abs)
}
