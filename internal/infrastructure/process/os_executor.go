package process

import (
	"fmt"
	"os/exec"

	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// ExecLauncher implements ProcessLauncher on top of os/exec
type ExecLauncher struct{}

// NewExecLauncher creates a new process launcher
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

// Run starts the command and waits for it to exit
func (ExecLauncher) Run(cmd *exec.Cmd) error {
	return cmd.Run()
}

// Start starts the command and releases it, so the child outlives this process
func (ExecLauncher) Start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release process %d: %w", cmd.Process.Pid, err)
	}
	return nil
}

var _ deployports.ProcessLauncher = ExecLauncher{}
