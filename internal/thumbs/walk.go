package thumbs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"artref/internal/logging"
)

// walkEntry is either a task or a file that could not be turned into one.
type walkEntry struct {
	task Task
	path string
	err  error
}

// collect walks the source root in lexical order. Symlinked files are
// followed, symlinked directories are not. The destination root is pruned
// when it lies inside the source root.
func (m *Mirror) collect(ctx context.Context) ([]walkEntry, error) {
	var entries []walkEntry
	err := filepath.WalkDir(m.srcRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == m.srcRoot {
				return walkErr
			}
			entries = append(entries, walkEntry{path: path, err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(m.srcRoot, path)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)

		if d.IsDir() {
			if path == m.srcRoot {
				return nil
			}
			if path == m.dstRoot {
				m.logger.Debug("skipping destination inside source", logging.String(logging.FieldPath, path))
				return filepath.SkipDir
			}
			if m.excluded(relSlash) {
				return filepath.SkipDir
			}
			return nil
		}

		if !m.exts.matches(path) || m.excluded(relSlash) {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				m.logger.Debug("skipping broken symlink", logging.String(logging.FieldPath, path), logging.Error(statErr))
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		dst, err := DestinationPath(m.srcRoot, m.dstRoot, path, m.encoder.Extension())
		if err != nil {
			entries = append(entries, walkEntry{path: path, err: err})
			return nil
		}
		relDst, err := filepath.Rel(m.dstRoot, dst)
		if err != nil {
			entries = append(entries, walkEntry{path: path, err: err})
			return nil
		}
		entries = append(entries, walkEntry{task: Task{
			SourcePath:      path,
			DestinationPath: dst,
			RelPath:         filepath.ToSlash(relDst),
			Width:           m.width,
			Quality:         m.quality,
			Method:          m.method,
		}})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return entries, err
		}
		return entries, fmt.Errorf("walk %s: %w", m.srcRoot, err)
	}
	return entries, nil
}

func (m *Mirror) excluded(relSlash string) bool {
	for _, pattern := range m.exclude {
		if ok, err := doublestar.Match(pattern, relSlash); err == nil && ok {
			return true
		}
	}
	return false
}
