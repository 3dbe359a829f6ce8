//go:build !unix && !windows

package process

import "os/exec"

func detach(cmd *exec.Cmd) {}
