package thumbs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Reasons attached to planned and skipped tasks.
const (
	ReasonMissing = "missing"
	ReasonStale   = "stale"
	ReasonChanged = "changed"
	ReasonCurrent = "current"
	ReasonAdopted = "adopted"
)

// Task is the work derived for one source image.
type Task struct {
	SourcePath      string
	DestinationPath string
	// RelPath is the slash-separated destination path relative to the
	// destination root.
	RelPath string
	Width   int
	Quality int
	Method  int
}

// DestinationPath maps a source file to its mirrored location: the same
// relative path under dstRoot with the extension replaced by ext.
func DestinationPath(srcRoot, dstRoot, srcPath, ext string) (string, error) {
	rel, err := filepath.Rel(srcRoot, srcPath)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", srcPath, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside %s", srcPath, srcRoot)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ext
	return filepath.Join(dstRoot, rel), nil
}

type extensionSet map[string]struct{}

func newExtensionSet(exts []string) extensionSet {
	set := make(extensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func (s extensionSet) matches(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SupportedExtensions is the default set of source extensions.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".webp", ".tif", ".tiff"}
}
