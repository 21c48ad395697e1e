// Package server runs the headless editor core behind a session socket,
// accepting framed client connections and turning their decoded input
// into calls on a shared app.Application. It is the Go analogue of the
// original's fixed wait-handle event loop: instead of one thread
// multiplexing a handful of OS wait handles, each connection and each
// supervised process gets its own goroutine, and all of them feed a
// single ordered request channel so application state is only ever
// touched from one place.
package server

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/dshills/peppered/internal/app"
	"github.com/dshills/peppered/internal/input/key"
	"github.com/dshills/peppered/internal/transport"
)

// request is one unit of work destined for the single goroutine that
// owns app.Application. It mirrors the platform-request shapes the
// original event loop dispatches (write/close/spawn/kill/redraw) but
// expressed as plain closures, since Go has no equivalent of pushing a
// tagged union onto a completion queue.
type request func()

// Server accepts client connections on a session's Unix socket and
// serializes their input onto one Application.
type Server struct {
	app *app.Application
	ln  net.Listener

	reqs chan request

	mu      sync.Mutex
	clients map[*clientConn]struct{}
}

// New wires a Server around an already-bootstrapped Application and a
// listener obtained from transport.Listen.
func New(application *app.Application, ln net.Listener) *Server {
	return &Server{
		app:     application,
		ln:      ln,
		reqs:    make(chan request, 64),
		clients: make(map[*clientConn]struct{}),
	}
}

// clientConn tracks one connected client's framed socket and a buffer
// pool slot for its outbound writes, the Go stand-in for the BufPool
// the original event loop threads through WriteToClient requests.
type clientConn struct {
	conn *transport.Conn
	bufs *bufPool
}

// Serve runs the request-owner loop and the accept loop until ctx is
// cancelled. It blocks until both have shut down.
func (s *Server) Serve(ctx context.Context) error {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runOwner(ctx)
	}()

	acceptErr := s.acceptLoop(ctx)

	close(s.reqs)
	wg.Wait()

	return acceptErr
}

// runOwner is the single goroutine permitted to touch s.app. Every
// other goroutine in this package communicates with it only by
// pushing a request.
func (s *Server) runOwner(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-s.reqs:
			if !ok {
				return
			}
			req()
		}
	}
}

func (s *Server) acceptLoop(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()

	for {
		nc, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		cc := &clientConn{conn: transport.NewConn(nc), bufs: newBufPool()}
		s.addClient(cc)
		go s.serveClient(ctx, cc)
	}
}

func (s *Server) addClient(c *clientConn) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeClient(c *clientConn) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

// serveClient reads framed messages off one connection and forwards
// each as a request to the owner goroutine, never touching app state
// directly.
func (s *Server) serveClient(ctx context.Context, cc *clientConn) {
	defer s.removeClient(cc)
	defer cc.conn.Close()

	for {
		msg, err := cc.conn.Recv()
		if err != nil {
			return
		}

		switch msg.Tag {
		case transport.TagInit:
			// Nothing to acknowledge: the client only needs the socket
			// to accept the connection at all.

		case transport.TagKeys:
			events, err := transport.DecodeKeys(msg.Payload)
			if err != nil {
				slog.Warn("server: malformed key payload", "err", err)
				continue
			}
			quit := make(chan bool, 1)
			select {
			case s.reqs <- func() { quit <- s.applyKeys(cc, events) }:
			case <-ctx.Done():
				return
			}
			select {
			case shouldQuit := <-quit:
				if shouldQuit {
					return
				}
			case <-ctx.Done():
				return
			}

		case transport.TagResize:
			// Layout belongs to the client; the core only needs to know
			// cursor/selection state changed, which HandleKeyEvent's
			// callers already pick up through CursorProvider.
			if _, _, err := transport.DecodeResize(msg.Payload); err != nil {
				slog.Warn("server: malformed resize payload", "err", err)
			}

		case transport.TagStdinOutput:
			// Reserved for process-supervisor wiring: bytes a client
			// forwards from its controlling terminal to a process this
			// server spawned on the client's behalf.
		}
	}
}

// applyKeys runs on the owner goroutine. It feeds each decoded key
// through the application and reports whether the application asked
// to quit, in which case this connection sends a Quit message and
// closes.
func (s *Server) applyKeys(cc *clientConn, events []key.Event) bool {
	for _, ev := range events {
		if err := s.app.HandleKeyEvent(ev); err != nil {
			if err == app.ErrQuit {
				_ = cc.conn.Send(transport.Message{Tag: transport.TagQuit})
				return true
			}
			slog.Warn("server: key handling error", "err", err)
		}
	}
	return false
}
