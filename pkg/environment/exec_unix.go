//go:build !windows

package environment

import (
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// isExecutable reports whether path is a regular file this process may run.
func isExecutable(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if _, ok := fs.(*afero.OsFs); ok {
		return unix.Access(path, unix.X_OK) == nil
	}

	return info.Mode().Perm()&0o111 != 0
}
