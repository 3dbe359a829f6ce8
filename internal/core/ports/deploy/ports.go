package deployports

import (
	"context"
	"os/exec"

	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
)

// CommandRunner runs the build command
type CommandRunner interface {
	// Run executes command in workingDir and returns a *deploydomain.BuildError on failure
	Run(ctx context.Context, command, workingDir string) error
}

// Installer places build artifacts into the host application's plugin directory
type Installer interface {
	// EnsureDestination creates path and its parents when missing
	EnsureDestination(path string) error

	// InstallArtifacts copies names from sourceDir to destDir; missing files are reported, not fatal
	InstallArtifacts(ctx context.Context, sourceDir, destDir string, names []string) deploydomain.InstallReport
}

// ProcessRestarter stops and relaunches the host application
type ProcessRestarter interface {
	// Restart always completes; problems are returned as warnings on the outcome
	Restart(ctx context.Context, profile deploydomain.PlatformProfile) *deploydomain.RestartOutcome
}

// ProcessLauncher abstracts os/exec so tests can observe commands without running them.
type ProcessLauncher interface {
	// Run starts cmd and waits for it to exit
	Run(cmd *exec.Cmd) error

	// Start starts cmd without waiting for it
	Start(cmd *exec.Cmd) error
}

// Logger is the console output channel
type Logger interface {
	LogInfo(message string, fields map[string]interface{})
	LogSuccess(message string, fields map[string]interface{})
	LogWarning(message string, fields map[string]interface{})
	LogError(err error, message string, fields map[string]interface{})
	LogDebug(message string, fields map[string]interface{})
	LogSection(title string)
	LogOutput(label, output string)
}
