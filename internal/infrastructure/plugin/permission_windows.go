//go:build windows

package plugininfra

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, windows.ERROR_ACCESS_DENIED) || errors.Is(err, windows.ERROR_WRITE_PROTECT)
}
