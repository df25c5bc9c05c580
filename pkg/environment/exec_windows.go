//go:build windows

package environment

import (
	"github.com/spf13/afero"
)

// isExecutable reports whether path is a regular file. Windows has no
// execute bit.
func isExecutable(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
