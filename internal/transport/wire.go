package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dshills/peppered/internal/input/key"
)

// MessageTag identifies the kind of payload carried by a framed
// message, client to server or server to client.
type MessageTag byte

const (
	// Client -> server.
	TagInit MessageTag = iota
	TagKeys
	TagStdinOutput
	TagResize

	// Server -> client.
	TagStdoutOutput
	TagQuit
)

// Message is one length-prefixed frame: a tag byte followed by a
// tag-specific payload.
type Message struct {
	Tag     MessageTag
	Payload []byte
}

// WriteMessage frames msg as a 4-byte little-endian length (covering
// the tag byte plus payload) followed by the tag and payload, and
// writes it to w.
func WriteMessage(w io.Writer, msg Message) error {
	body := make([]byte, 1+len(msg.Payload))
	body[0] = byte(msg.Tag)
	copy(body[1:], msg.Payload)

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(body)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// ReadMessage reads one length-prefixed frame from r. It returns
// io.EOF if the connection closed cleanly between frames.
func ReadMessage(r *bufio.Reader) (Message, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Message{}, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n == 0 {
		return Message{}, fmt.Errorf("transport: zero-length frame")
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Message{}, err
	}
	return Message{Tag: MessageTag(body[0]), Payload: body[1:]}, nil
}

// EncodeInit builds an Init payload: the client's current working
// directory followed by any path:line[,col] arguments, NUL-separated.
func EncodeInit(args []string) []byte {
	var out []byte
	for i, a := range args {
		if i > 0 {
			out = append(out, 0)
		}
		out = append(out, a...)
	}
	return out
}

// EncodeResize builds a Resize payload: two little-endian uint16s.
func EncodeResize(width, height uint16) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint16(buf[0:2], width)
	binary.LittleEndian.PutUint16(buf[2:4], height)
	return buf
}

// DecodeResize reverses EncodeResize.
func DecodeResize(payload []byte) (width, height uint16, err error) {
	if len(payload) != 4 {
		return 0, 0, fmt.Errorf("transport: malformed resize payload")
	}
	return binary.LittleEndian.Uint16(payload[0:2]), binary.LittleEndian.Uint16(payload[2:4]), nil
}

// Key wire discriminants. Char-carrying variants append the rune as
// UTF-8 bytes after the discriminant; F(n) appends one byte for n;
// Ctrl/Alt append the carried rune's UTF-8 bytes the same as Char.
const (
	wireKeyNone byte = iota
	wireKeyBackspace
	wireKeyEnter
	wireKeyLeft
	wireKeyRight
	wireKeyUp
	wireKeyDown
	wireKeyHome
	wireKeyEnd
	wireKeyPageUp
	wireKeyPageDown
	wireKeyTab
	wireKeyDelete
	wireKeyF
	wireKeyEsc
	wireKeyCtrl
	wireKeyAlt
	wireKeyChar
)

// EncodeKey renders ev using the wire key format: a single
// discriminant byte, followed by UTF-8 bytes for the variants that
// carry a character (Char, Ctrl, Alt) or one byte for F(n).
func EncodeKey(ev key.Event) []byte {
	switch {
	case ev.Modifiers.Has(key.ModCtrl) && ev.Key == key.KeyRune:
		return append([]byte{wireKeyCtrl}, []byte(string(ev.Rune))...)
	case ev.Modifiers.Has(key.ModAlt) && ev.Key == key.KeyRune:
		return append([]byte{wireKeyAlt}, []byte(string(ev.Rune))...)
	}

	switch ev.Key {
	case key.KeyNone:
		return []byte{wireKeyNone}
	case key.KeyBackspace:
		return []byte{wireKeyBackspace}
	case key.KeyEnter:
		return []byte{wireKeyEnter}
	case key.KeyLeft:
		return []byte{wireKeyLeft}
	case key.KeyRight:
		return []byte{wireKeyRight}
	case key.KeyUp:
		return []byte{wireKeyUp}
	case key.KeyDown:
		return []byte{wireKeyDown}
	case key.KeyHome:
		return []byte{wireKeyHome}
	case key.KeyEnd:
		return []byte{wireKeyEnd}
	case key.KeyPageUp:
		return []byte{wireKeyPageUp}
	case key.KeyPageDown:
		return []byte{wireKeyPageDown}
	case key.KeyTab:
		return []byte{wireKeyTab}
	case key.KeyDelete:
		return []byte{wireKeyDelete}
	case key.KeyEscape:
		return []byte{wireKeyEsc}
	case key.KeyRune:
		return append([]byte{wireKeyChar}, []byte(string(ev.Rune))...)
	}

	if ev.Key >= key.KeyF1 && ev.Key <= key.KeyF12 {
		n := byte(ev.Key-key.KeyF1) + 1
		return []byte{wireKeyF, n}
	}
	return []byte{wireKeyNone}
}

// DecodeKeys decodes every key event packed consecutively into a Keys
// payload, in wire order.
func DecodeKeys(payload []byte) ([]key.Event, error) {
	var events []key.Event
	for len(payload) > 0 {
		ev, rest, err := decodeOneKey(payload)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		payload = rest
	}
	return events, nil
}

func decodeOneKey(payload []byte) (key.Event, []byte, error) {
	if len(payload) == 0 {
		return key.Event{}, nil, fmt.Errorf("transport: empty key payload")
	}
	tag := payload[0]
	rest := payload[1:]

	readRune := func() (rune, []byte, error) {
		r, size := decodeRuneUTF8(rest)
		if size == 0 {
			return 0, nil, fmt.Errorf("transport: truncated key rune")
		}
		return r, rest[size:], nil
	}

	switch tag {
	case wireKeyNone:
		return key.NewEvent(key.KeyNone, 0, key.ModNone), rest, nil
	case wireKeyBackspace:
		return key.NewEvent(key.KeyBackspace, 0, key.ModNone), rest, nil
	case wireKeyEnter:
		return key.NewEvent(key.KeyEnter, 0, key.ModNone), rest, nil
	case wireKeyLeft:
		return key.NewEvent(key.KeyLeft, 0, key.ModNone), rest, nil
	case wireKeyRight:
		return key.NewEvent(key.KeyRight, 0, key.ModNone), rest, nil
	case wireKeyUp:
		return key.NewEvent(key.KeyUp, 0, key.ModNone), rest, nil
	case wireKeyDown:
		return key.NewEvent(key.KeyDown, 0, key.ModNone), rest, nil
	case wireKeyHome:
		return key.NewEvent(key.KeyHome, 0, key.ModNone), rest, nil
	case wireKeyEnd:
		return key.NewEvent(key.KeyEnd, 0, key.ModNone), rest, nil
	case wireKeyPageUp:
		return key.NewEvent(key.KeyPageUp, 0, key.ModNone), rest, nil
	case wireKeyPageDown:
		return key.NewEvent(key.KeyPageDown, 0, key.ModNone), rest, nil
	case wireKeyTab:
		return key.NewEvent(key.KeyTab, 0, key.ModNone), rest, nil
	case wireKeyDelete:
		return key.NewEvent(key.KeyDelete, 0, key.ModNone), rest, nil
	case wireKeyEsc:
		return key.NewEvent(key.KeyEscape, 0, key.ModNone), rest, nil
	case wireKeyF:
		if len(rest) == 0 {
			return key.Event{}, nil, fmt.Errorf("transport: truncated F-key payload")
		}
		n := rest[0]
		return key.NewEvent(key.KeyF1+key.Key(n-1), 0, key.ModNone), rest[1:], nil
	case wireKeyCtrl:
		r, after, err := readRune()
		if err != nil {
			return key.Event{}, nil, err
		}
		return key.NewEvent(key.KeyRune, r, key.ModCtrl), after, nil
	case wireKeyAlt:
		r, after, err := readRune()
		if err != nil {
			return key.Event{}, nil, err
		}
		return key.NewEvent(key.KeyRune, r, key.ModAlt), after, nil
	case wireKeyChar:
		r, after, err := readRune()
		if err != nil {
			return key.Event{}, nil, err
		}
		return key.NewEvent(key.KeyRune, r, key.ModNone), after, nil
	default:
		return key.Event{}, nil, fmt.Errorf("transport: unknown key tag %d", tag)
	}
}

// decodeRuneUTF8 decodes one rune from the front of b, returning its
// size in bytes (0 if b is empty or malformed).
func decodeRuneUTF8(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	r0 := b[0]
	switch {
	case r0 < 0x80:
		return rune(r0), 1
	case r0&0xE0 == 0xC0:
		if len(b) < 2 {
			return 0, 0
		}
		return rune(r0&0x1F)<<6 | rune(b[1]&0x3F), 2
	case r0&0xF0 == 0xE0:
		if len(b) < 3 {
			return 0, 0
		}
		return rune(r0&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F), 3
	case r0&0xF8 == 0xF0:
		if len(b) < 4 {
			return 0, 0
		}
		return rune(r0&0x07)<<18 | rune(b[1]&0x3F)<<12 | rune(b[2]&0x3F)<<6 | rune(b[3]&0x3F), 4
	default:
		return 0, 0
	}
}

// EncodeKeys packs several key events into one Keys payload.
func EncodeKeys(events []key.Event) []byte {
	var out []byte
	for _, ev := range events {
		out = append(out, EncodeKey(ev)...)
	}
	return out
}
