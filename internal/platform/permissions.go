package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets the permission bits of an existing file. A missing file is
// reported on every platform, wrapping fs.ErrNotExist; otherwise Windows
// is a no-op because it has no Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// IsExecutable reports whether path exists and has an execute bit set.
// Windows has no execute bits, so any existing regular file counts.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}
