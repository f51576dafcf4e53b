package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// StoreDirName is the directory that marks a board root and holds its
// fs/sqlite data.
const StoreDirName = ".sticky"

// FindRoot looks upwards from startDir for a board root: a directory holding
// a .sticky directory or a sticky.yaml file. It returns the absolute path of
// the root, or an error when the filesystem root is reached.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasFile(dir, StoreDirName) || hasFile(dir, "sticky.yaml") {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("root not found")
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
