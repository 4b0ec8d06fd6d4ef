package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// devDirName is the sandbox root under the system temp directory.
const devDirName = "airnote-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveCacheDir determines the directory the cache actually lives in.
// With forceTemp the path is re-rooted under the dev sandbox, unless it
// already points inside the system temp directory.
func ResolveCacheDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()

	// t.TempDir() and friends are trusted as-is.
	if rel, err := filepath.Rel(tempRoot, clean); err == nil && userPath != "" && !strings.HasPrefix(rel, "..") {
		return clean
	}

	sub := "default"
	if userPath != "" && userPath != "." && userPath != "./" {
		sub = filepath.Base(userPath)
		if sub == "." || sub == string(os.PathSeparator) {
			sub = "default"
		}
	}

	return filepath.Join(tempRoot, devDirName, sub)
}
