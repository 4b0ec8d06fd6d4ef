package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// CacheDirName is the project-local cache directory.
const CacheDirName = ".airnote"

// ConfigFileName is the optional project configuration file.
const ConfigFileName = "airnote.yaml"

// ErrRootNotFound is returned when no project root exists above a directory.
var ErrRootNotFound = errors.New("root not found")

// FindRoot looks upwards from startDir for a project root: a directory
// holding a .airnote directory or an airnote.yaml file.
// It returns the absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, CacheDirName) || hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

// DefaultCacheDir picks the cache directory when none is configured:
// the .airnote directory of the enclosing project, or the user cache directory.
func DefaultCacheDir(startDir string) string {
	if root, err := FindRoot(startDir); err == nil {
		return filepath.Join(root, CacheDirName)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "airnote")
	}
	return CacheDirName
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
