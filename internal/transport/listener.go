package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Listen opens the Unix domain socket for session at its well-known
// path. If a stale socket file exists with nothing listening on it, it
// is removed and the bind retried once; a socket that is genuinely
// live makes Listen fail so a second server process never steals an
// existing session out from under its clients.
func Listen(session string) (net.Listener, error) {
	path := SocketPath(session)

	l, err := net.Listen("unix", path)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, syscall.EADDRINUSE) {
		return nil, err
	}

	if isSocketLive(path) {
		return nil, fmt.Errorf("transport: session %q already has a running server", session)
	}
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("transport: removing stale socket: %w", rmErr)
	}
	return net.Listen("unix", path)
}

// isSocketLive reports whether a connection can be made to the socket
// at path, i.e. whether some process is actually listening on it.
func isSocketLive(path string) bool {
	c, err := net.Dial("unix", path)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}
