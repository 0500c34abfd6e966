package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir ensures a directory exists.
func EnsureDir(p string) error {
	st, err := os.Stat(p)
	if err == nil {
		if !st.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", p)
		}
		return nil
	}
	return os.MkdirAll(p, 0755)
}

// EnsurePath ensures the directory of the given file path exists.
func EnsurePath(p string) error {
	return EnsureDir(filepath.Dir(p))
}
