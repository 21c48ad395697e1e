package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/peppered/internal/input/key"
	"github.com/dshills/peppered/internal/transport"
)

// runClient connects to session (spawning a server if necessary), hands
// it the init payload built from the command line, then pumps terminal
// keys to the server and server control messages back to the terminal
// until the server requests quit or the connection drops.
func runClient(session string, initArgs []string, quitOnly bool) int {
	nc, err := transport.DialOrSpawn(session, 50, 100*time.Millisecond)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: connecting to session %q: %v\n", session, err)
		return 1
	}
	conn := transport.NewConn(nc)
	defer conn.Close()

	if err := conn.Send(transport.Message{Tag: transport.TagInit, Payload: transport.EncodeInit(initArgs)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: sending init: %v\n", err)
		return 1
	}

	if quitOnly {
		return 0
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	w, h := screen.Size()
	_ = conn.Send(transport.Message{Tag: transport.TagResize, Payload: transport.EncodeResize(uint16(w), uint16(h))})

	quit := make(chan struct{})
	go recvLoop(conn, quit)

	for {
		ev := screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventKey:
			keyEv, ok := convertTcellKey(e)
			if !ok {
				continue
			}
			payload := transport.EncodeKeys([]key.Event{keyEv})
			if err := conn.Send(transport.Message{Tag: transport.TagKeys, Payload: payload}); err != nil {
				return 0
			}
		case *tcell.EventResize:
			rw, rh := e.Size()
			_ = conn.Send(transport.Message{Tag: transport.TagResize, Payload: transport.EncodeResize(uint16(rw), uint16(rh))})
		}

		select {
		case <-quit:
			return 0
		default:
		}
	}
}

// recvLoop drains server->client messages. The only one acted on today
// is Quit; StdoutOutput is reserved for when the server starts pushing
// rendered bytes down this connection.
func recvLoop(conn *transport.Conn, quit chan<- struct{}) {
	for {
		msg, err := conn.Recv()
		if err != nil {
			close(quit)
			return
		}
		if msg.Tag == transport.TagQuit {
			close(quit)
			return
		}
	}
}

// ctrlRune recovers the ASCII letter behind one of tcell's KeyCtrlA..Z
// constants, which encode the control code as the key value itself
// rather than as a rune-plus-modifier pair.
func ctrlRune(k tcell.Key) (rune, bool) {
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return rune('a' + int(k-tcell.KeyCtrlA)), true
	}
	return 0, false
}

// convertTcellKey maps one tcell key event onto the wire's key.Event
// vocabulary. Keys the wire format has no slot for (e.g. Insert) are
// reported as not-ok so the caller drops them rather than sending a
// meaningless None.
func convertTcellKey(e *tcell.EventKey) (key.Event, bool) {
	if r, ok := ctrlRune(e.Key()); ok {
		return key.NewEvent(key.KeyRune, r, key.ModCtrl), true
	}

	mods := key.ModNone
	if e.Modifiers()&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}

	switch e.Key() {
	case tcell.KeyRune:
		return key.NewEvent(key.KeyRune, e.Rune(), mods), true
	case tcell.KeyEscape:
		return key.NewEvent(key.KeyEscape, 0, mods), true
	case tcell.KeyEnter:
		return key.NewEvent(key.KeyEnter, 0, mods), true
	case tcell.KeyTab:
		return key.NewEvent(key.KeyTab, 0, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewEvent(key.KeyBackspace, 0, mods), true
	case tcell.KeyDelete:
		return key.NewEvent(key.KeyDelete, 0, mods), true
	case tcell.KeyHome:
		return key.NewEvent(key.KeyHome, 0, mods), true
	case tcell.KeyEnd:
		return key.NewEvent(key.KeyEnd, 0, mods), true
	case tcell.KeyPgUp:
		return key.NewEvent(key.KeyPageUp, 0, mods), true
	case tcell.KeyPgDn:
		return key.NewEvent(key.KeyPageDown, 0, mods), true
	case tcell.KeyUp:
		return key.NewEvent(key.KeyUp, 0, mods), true
	case tcell.KeyDown:
		return key.NewEvent(key.KeyDown, 0, mods), true
	case tcell.KeyLeft:
		return key.NewEvent(key.KeyLeft, 0, mods), true
	case tcell.KeyRight:
		return key.NewEvent(key.KeyRight, 0, mods), true
	case tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5, tcell.KeyF6,
		tcell.KeyF7, tcell.KeyF8, tcell.KeyF9, tcell.KeyF10, tcell.KeyF11, tcell.KeyF12:
		n := int(e.Key() - tcell.KeyF1)
		return key.NewEvent(key.KeyF1+key.Key(n), 0, mods), true
	default:
		return key.Event{}, false
	}
}
