package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// outputWaitDelay bounds how long output copying may continue after the command was killed.
const outputWaitDelay = 2 * time.Second

// ShellCommandRunner runs the build command through the platform shell and captures its output
type ShellCommandRunner struct {
	launcher deployports.ProcessLauncher
	logger   deployports.Logger
	shell    []string
	timeout  time.Duration
	env      []string
}

// NewShellCommandRunner creates a command runner. A zero timeout waits for the command
// however long it takes.
func NewShellCommandRunner(launcher deployports.ProcessLauncher, logger deployports.Logger, profile deploydomain.PlatformProfile, timeout time.Duration) *ShellCommandRunner {
	return &ShellCommandRunner{
		launcher: launcher,
		logger:   logger,
		shell:    profile.Shell,
		timeout:  timeout,
		env:      os.Environ(),
	}
}

// Run executes command in workingDir
func (r *ShellCommandRunner) Run(ctx context.Context, command, workingDir string) error {
	fail := func(err error) error {
		return &deploydomain.BuildError{Command: command, Dir: workingDir, ExitCode: -1, Err: err}
	}

	if strings.TrimSpace(command) == "" {
		return fail(errors.New("build command cannot be empty"))
	}
	info, err := os.Stat(workingDir)
	if err != nil {
		return fail(fmt.Errorf("working directory: %w", err))
	}
	if !info.IsDir() {
		return fail(fmt.Errorf("working directory %s is not a directory", workingDir))
	}
	if len(r.shell) == 0 {
		return fail(errors.New("no shell configured for this platform"))
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := append(append([]string(nil), r.shell...), command)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = workingDir
	cmd.Env = r.env
	cmd.WaitDelay = outputWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.LogInfo(fmt.Sprintf("Running command: %s", command), map[string]interface{}{"dir": workingDir})
	r.logger.LogDebug("shell invocation", map[string]interface{}{"argv": strings.Join(argv, " ")})

	runErr := r.launcher.Run(cmd)
	if runErr == nil {
		r.logger.LogOutput("stdout", stdout.String())
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		runErr = fmt.Errorf("%w (%v)", ctxErr, runErr)
		exitCode = -1
	}

	r.logger.LogOutput("stdout", stdout.String())
	r.logger.LogOutput("stderr", stderr.String())

	return &deploydomain.BuildError{
		Command:  command,
		Dir:      workingDir,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      runErr,
	}
}

var _ deployports.CommandRunner = (*ShellCommandRunner)(nil)
