package plugininfra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// FileSystemInstaller copies build artifacts into the host application's plugin directory
type FileSystemInstaller struct {
	logger deployports.Logger
}

// NewFileSystemInstaller creates a new filesystem plugin installer
func NewFileSystemInstaller(logger deployports.Logger) *FileSystemInstaller {
	return &FileSystemInstaller{logger: logger}
}

// EnsureDestination creates path and any missing parents. An existing directory is left alone.
func (i *FileSystemInstaller) EnsureDestination(path string) error {
	path = ExpandPath(path)

	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			i.logger.LogDebug("destination exists", map[string]interface{}{"path": path})
			return nil
		}
		return &deploydomain.DirectoryCreationError{Path: path, Err: fmt.Errorf("%s exists and is not a directory", path)}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return &deploydomain.DirectoryCreationError{Path: path, PermissionDenied: isPermissionError(err), Err: err}
	}

	i.logger.LogInfo(fmt.Sprintf("Destination does not exist, creating: %s", path), nil)

	// Default permissions; the umask decides the final mode.
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return &deploydomain.DirectoryCreationError{Path: path, PermissionDenied: isPermissionError(err), Err: err}
	}

	i.logger.LogSuccess("Destination directory created", nil)
	return nil
}

// InstallArtifacts copies each named artifact from sourceDir to destDir in order.
// A missing or uncopyable artifact is recorded in the report and the rest are still installed.
func (i *FileSystemInstaller) InstallArtifacts(ctx context.Context, sourceDir, destDir string, names []string) deploydomain.InstallReport {
	var report deploydomain.InstallReport
	destDir = ExpandPath(destDir)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, deploydomain.ArtifactFailure{Name: name, Err: err})
			continue
		}

		if err := validateArtifactName(name); err != nil {
			report.Failed = append(report.Failed, deploydomain.ArtifactFailure{Name: name, Err: err})
			i.logger.LogWarning(fmt.Sprintf("Skipping %s: %v", name, err), nil)
			continue
		}

		src := filepath.Join(sourceDir, name)
		dst := filepath.Join(destDir, name)

		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.Missing = append(report.Missing, name)
				i.logger.LogWarning(fmt.Sprintf("Warning: source file does not exist: %s", src), nil)
				continue
			}
			report.Failed = append(report.Failed, deploydomain.ArtifactFailure{Name: name, Err: err})
			i.logger.LogWarning(fmt.Sprintf("Cannot read %s: %v", src, err), nil)
			continue
		}

		i.logger.LogInfo(fmt.Sprintf("Copying %s...", name), nil)
		n, err := copyArtifact(src, dst)
		if err != nil {
			report.Failed = append(report.Failed, deploydomain.ArtifactFailure{Name: name, Err: err})
			i.logger.LogWarning(fmt.Sprintf("Failed to copy %s: %v", name, err), nil)
			continue
		}

		report.Copied = append(report.Copied, deploydomain.CopiedArtifact{Name: name, Bytes: n})
		i.logger.LogSuccess(fmt.Sprintf("%s copied (%s)", name, humanize.Bytes(uint64(n))), nil)
	}

	return report
}

// copyArtifact overwrites dst with src, keeping permission bits and modification time.
func copyArtifact(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("failed to write file: %w", err)
	}

	// OpenFile only applies the mode to new files.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return n, fmt.Errorf("failed to set timestamps: %w", err)
	}

	return n, nil
}

// validateArtifactName keeps artifacts inside the destination directory
func validateArtifactName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return fmt.Errorf("unsafe artifact name %q: must be a plain file name", name)
	}
	return nil
}

// ExpandPath expands ~ in paths
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

var _ deployports.Installer = (*FileSystemInstaller)(nil)
