//go:build unix

package plugininfra

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EROFS)
}
