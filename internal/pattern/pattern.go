// Package pattern implements the editor's small bytecode pattern-matching
// engine: a regex-like language compiled to a compact op array and executed
// by a resumable interpreter. It backs syntax highlighting, incremental
// search, cursor filtering/splitting, and the picker's ranking fallback.
package pattern

import "fmt"

// Error is a pattern compile error. It always carries the byte position in
// the source pattern text where the problem was detected.
type Error struct {
	Kind     ErrorKind
	Position int
	Ch       rune
}

// ErrorKind enumerates the compile-time failure modes from spec.md §7.
type ErrorKind int

const (
	ErrUnexpectedEndOfPattern ErrorKind = iota
	ErrExpected
	ErrInvalidEscaping
	ErrUnescaped
	ErrEmptyGroup
	ErrGroupWithElementsOfDifferentSize
	ErrPatternTooLong
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnexpectedEndOfPattern:
		return fmt.Sprintf("pattern:%d: unexpected end of pattern", e.Position)
	case ErrExpected:
		return fmt.Sprintf("pattern:%d: expected character %q", e.Position, e.Ch)
	case ErrInvalidEscaping:
		return fmt.Sprintf("pattern:%d: invalid escaping %%%c", e.Position, e.Ch)
	case ErrUnescaped:
		return fmt.Sprintf("pattern:%d: unescaped character %q", e.Position, e.Ch)
	case ErrEmptyGroup:
		return fmt.Sprintf("pattern:%d: empty pattern group", e.Position)
	case ErrGroupWithElementsOfDifferentSize:
		return fmt.Sprintf("pattern:%d: group elements have different match lengths", e.Position)
	case ErrPatternTooLong:
		return fmt.Sprintf("pattern:%d: pattern program exceeds the jump-space bound", e.Position)
	default:
		return "pattern: unknown error"
	}
}

// maxOps bounds the size of a compiled program so that every jump fits in a
// 16-bit slot, per spec.md §9 "Bytecode layout".
const maxOps = 1 << 16

// Result is the outcome of running the matcher to completion or to a
// resumption point. Runtime execution never fails outright (spec.md §4.4
// "Runtime never fails"): it always yields one of these three shapes.
type Result struct {
	Kind  ResultKind
	N     int   // consumed byte length, valid when Kind == ResultOk
	State State // resumption state, valid when Kind == ResultPending
}

type ResultKind int

const (
	ResultErr ResultKind = iota
	ResultOk
	ResultPending
)

// State is a resumable matcher checkpoint. It is a single 16-bit jump index,
// expressible without heap allocation per spec.md §9.
type State struct {
	opJump uint16
}

// Pattern is a compiled, immutable, value-owned pattern program.
type Pattern struct {
	prog Program
}

// Compile parses and compiles a pattern-language string (spec.md §4.4).
func Compile(src string) (Pattern, error) {
	prog, err := compile(src)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{prog: prog}, nil
}

// searcherIgnoreCase reports whether the literal/pattern searcher sigil (or
// its absence) requests case-insensitive matching, and returns the residual
// pattern text with the sigil stripped.
func parseSearcherSigil(src string) (literal, ignoreCase bool, rest string) {
	switch {
	case len(src) >= 2 && src[0] == 'f' && src[1] == '/':
		return true, true, src[2:]
	case len(src) >= 2 && src[0] == 'F' && src[1] == '/':
		return true, false, src[2:]
	case len(src) >= 2 && src[0] == 'p' && src[1] == '/':
		return false, true, src[2:]
	case len(src) >= 2 && src[0] == 'P' && src[1] == '/':
		return false, false, src[2:]
	default:
		hasUpper := false
		for _, r := range src {
			if r >= 'A' && r <= 'Z' {
				hasUpper = true
				break
			}
		}
		return true, !hasUpper, src
	}
}

// CompileSearcher compiles a searcher string, honoring the leading mode
// sigil (f/F/p/P) described in spec.md §4.4, or literal case-insensitive
// search (case-sensitive iff the text contains an uppercase letter) when no
// sigil is present.
func CompileSearcher(src string) (Pattern, error) {
	literal, ignoreCase, rest := parseSearcherSigil(src)

	var prog Program
	var err error
	if literal {
		prog, err = compileLiteral(rest)
	} else {
		prog, err = compile(rest)
	}
	if err != nil {
		return Pattern{}, err
	}
	if ignoreCase {
		prog.ignoreCase()
	}
	return Pattern{prog: prog}, nil
}

// Matches runs the pattern against text starting at the given byte index.
func (p Pattern) Matches(text string, index int) Result {
	return p.MatchesWithState(text, index, State{opJump: p.prog.start})
}

// MatchesWithState resumes a previous Pending match with more text, per
// spec.md testable property 2. The state is carried by the caller; the
// matcher keeps no state of its own.
func (p Pattern) MatchesWithState(text string, index int, state State) Result {
	return run(p.prog, text, index, state)
}

// SearchAnchor reports the single byte a match must begin with, if the
// pattern cannot possibly match starting anywhere else (spec.md §4.4).
func (p Pattern) SearchAnchor() (byte, bool) {
	return p.prog.searchAnchor()
}

// IsEmpty reports whether the pattern matches the empty string at every
// position (an empty pattern source, or a pattern whose start op is Ok).
func (p Pattern) IsEmpty() bool {
	op := p.prog.ops[p.prog.start]
	return op.Kind == OpOk || op.Kind == OpError
}

// MatchIndices iterates non-overlapping match ranges over text.
type MatchIndices struct {
	pattern Pattern
	text    string
	index   int
	anchor  bool
	anchorB byte
}

// NewMatchIndices builds an iterator over match byte ranges, using the
// pattern's search anchor (if any) to skip candidate positions cheaply.
func (p Pattern) NewMatchIndices(text string) *MatchIndices {
	b, ok := p.SearchAnchor()
	return &MatchIndices{pattern: p, text: text, anchor: ok, anchorB: b}
}

// Next returns the next [start,end) match range, or ok=false when exhausted.
func (m *MatchIndices) Next() (start, end int, ok bool) {
	for m.index <= len(m.text) {
		if m.anchor {
			rest := m.text[m.index:]
			i := indexByte(rest, m.anchorB)
			if i < 0 {
				m.index = len(m.text)
				return 0, 0, false
			}
			m.index += i
		}
		if m.index > len(m.text) {
			return 0, 0, false
		}
		res := m.pattern.Matches(m.text, m.index)
		if res.Kind == ResultOk && res.N > m.index {
			from := m.index
			m.index = res.N
			return from, m.index, true
		}
		if m.index >= len(m.text) {
			return 0, 0, false
		}
		_, size := decodeRune(m.text[m.index:])
		if size == 0 {
			size = 1
		}
		m.index += size
	}
	return 0, 0, false
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
