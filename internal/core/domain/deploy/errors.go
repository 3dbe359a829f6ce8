package deploydomain

import (
	"fmt"
	"strings"
)

// BuildError is returned when the build command exits non-zero or cannot be started.
type BuildError struct {
	Command  string
	Dir      string
	ExitCode int // -1 when the process never ran
	Stdout   string
	Stderr   string
	Err      error
}

func (e *BuildError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("build command %q failed in %s with exit code %d", e.Command, e.Dir, e.ExitCode)
	}
	return fmt.Sprintf("build command %q could not run in %s: %v", e.Command, e.Dir, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Output returns the captured output, stdout first.
func (e *BuildError) Output() string {
	return strings.TrimSpace(strings.Join([]string{e.Stdout, e.Stderr}, "\n"))
}

// DirectoryCreationError is returned when the install destination cannot be created.
type DirectoryCreationError struct {
	Path             string
	PermissionDenied bool
	Err              error
}

func (e *DirectoryCreationError) Error() string {
	if e.PermissionDenied {
		return fmt.Sprintf("cannot create destination directory %s: permission denied", e.Path)
	}
	return fmt.Sprintf("cannot create destination directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error {
	return e.Err
}
