// Package transport implements session discovery and the client/server
// wire protocol: a well-known Unix domain socket per working directory,
// length-prefixed framed messages, and the small set of payload tags
// client and server exchange.
package transport

import (
	"hash/fnv"
	"os"
	"path/filepath"
)

// DefaultSessionName derives a session name from the current working
// directory the way an unnamed session is addressed: the FNV-1a 64-bit
// hash of the directory's absolute path, hex-encoded, so two terminals
// opened in the same directory land on the same server without the
// user naming anything.
func DefaultSessionName() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return HashSessionName(cwd), nil
}

// HashSessionName hashes path with FNV-1a 64-bit and returns it as a
// fixed-width hex string suitable for use as a socket filename.
func HashSessionName(path string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	sum := h.Sum64()
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[sum&0xf]
		sum >>= 4
	}
	return string(buf)
}

// RuntimeDir returns the directory session sockets are created in:
// $XDG_RUNTIME_DIR if set, otherwise os.TempDir().
func RuntimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// SocketPath returns the Unix domain socket path for a named session.
func SocketPath(session string) string {
	return filepath.Join(RuntimeDir(), "peppered-"+session+".sock")
}
