package transport

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"
)

// DialOrSpawn connects to session's socket. If nothing is listening, it
// forks a detached copy of the running executable with --server
// --session=<name> and polls every 100ms until the socket accepts a
// connection or attempts are exhausted.
func DialOrSpawn(session string, spawnAttempts int, pollInterval time.Duration) (net.Conn, error) {
	if conn, err := net.Dial("unix", SocketPath(session)); err == nil {
		return conn, nil
	}

	if err := spawnDetachedServer(session); err != nil {
		return nil, fmt.Errorf("transport: spawning server: %w", err)
	}

	var lastErr error
	for i := 0; i < spawnAttempts; i++ {
		time.Sleep(pollInterval)
		conn, err := net.Dial("unix", SocketPath(session))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("transport: server did not come up: %w", lastErr)
}

// spawnDetachedServer forks a new process running the current
// executable in --server mode, detached from this process's session so
// it survives the launching client exiting.
func spawnDetachedServer(session string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(exe, "--server", "--session", session)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	setDetached(cmd)

	return cmd.Start()
}

// Conn wraps a framed connection with a buffered reader, since frames
// are read one at a time but io.Reader gives no short-read guarantee.
type Conn struct {
	nc net.Conn
	r  *bufio.Reader
}

// NewConn wraps an established connection for framed I/O.
func NewConn(nc net.Conn) *Conn {
	return &Conn{nc: nc, r: bufio.NewReader(nc)}
}

// Send writes one framed message.
func (c *Conn) Send(msg Message) error {
	return WriteMessage(c.nc, msg)
}

// Recv reads one framed message, blocking until a full frame arrives.
func (c *Conn) Recv() (Message, error) {
	return ReadMessage(c.r)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.nc.Close()
}

// RemoteAddr reports the connection's remote address, mainly useful for
// logging since Unix sockets have no meaningful peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.nc.RemoteAddr()
}
