//go:build windows

package platform

import "os"

// renameio does not support Windows.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	return os.WriteFile(path, data, mode)
}
