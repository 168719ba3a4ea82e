package thumbs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// IsUpToDate reports whether dst exists and was modified no earlier than src.
func IsUpToDate(src, dst string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat destination: %w", err)
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}
	return !dstInfo.ModTime().Before(srcInfo.ModTime()), nil
}
