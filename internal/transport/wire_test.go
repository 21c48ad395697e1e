package transport

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/dshills/peppered/internal/input/key"
)

func TestHashSessionNameDeterministic(t *testing.T) {
	a := HashSessionName("/home/user/project")
	b := HashSessionName("/home/user/project")
	c := HashSessionName("/home/user/other")
	if a != b {
		t.Fatalf("same path hashed differently: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("different paths hashed the same: %q", a)
	}
	if len(a) != 16 {
		t.Fatalf("hash length = %d, want 16 hex digits", len(a))
	}
}

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := Message{Tag: TagKeys, Payload: []byte("hello")}
	if err := WriteMessage(&buf, want); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	got, err := ReadMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if got.Tag != want.Tag || string(got.Payload) != string(want.Payload) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestKeyWireRoundTrip(t *testing.T) {
	events := []key.Event{
		key.NewEvent(key.KeyEnter, 0, key.ModNone),
		key.NewEvent(key.KeyRune, 'a', key.ModNone),
		key.NewEvent(key.KeyRune, 'c', key.ModCtrl),
		key.NewEvent(key.KeyRune, 'é', key.ModNone), // multi-byte rune
		key.NewEvent(key.KeyF1+key.Key(4), 0, key.ModNone),
		key.NewEvent(key.KeyEscape, 0, key.ModNone),
	}

	payload := EncodeKeys(events)
	decoded, err := DecodeKeys(payload)
	if err != nil {
		t.Fatalf("DecodeKeys: %v", err)
	}
	if len(decoded) != len(events) {
		t.Fatalf("got %d events, want %d", len(decoded), len(events))
	}
	for i, ev := range events {
		got := decoded[i]
		if got.Key != ev.Key || got.Rune != ev.Rune || got.Modifiers != ev.Modifiers {
			t.Fatalf("event %d = %+v, want %+v", i, got, ev)
		}
	}
}

func TestResizeRoundTrip(t *testing.T) {
	payload := EncodeResize(120, 40)
	w, h, err := DecodeResize(payload)
	if err != nil {
		t.Fatalf("DecodeResize: %v", err)
	}
	if w != 120 || h != 40 {
		t.Fatalf("got %dx%d, want 120x40", w, h)
	}
}
