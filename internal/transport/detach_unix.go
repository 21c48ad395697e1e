//go:build !windows

package transport

import (
	"os/exec"
	"syscall"
)

// setDetached puts cmd in its own session so it outlives the client
// process that spawned it.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
