//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own session so it is not killed with our terminal
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
