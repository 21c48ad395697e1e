//go:build windows

package transport

import "os/exec"

// setDetached is a no-op on Windows; session sockets are not the
// supported transport there and this keeps the package building.
func setDetached(cmd *exec.Cmd) {}
