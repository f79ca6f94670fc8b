package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectDirName marks a project-local deck store.
const ProjectDirName = ".copydeck"

// FindRoot walks upwards from startDir looking for a ProjectDirName directory
// and returns the path of that directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, ProjectDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory found above %s", ProjectDirName, abs)
}
