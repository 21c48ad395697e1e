package buffer

// delimiterPairs lists the bracket pairs balanced-delimiter search
// recognizes.
var delimiterPairs = [...]struct{ open, close byte }{
	{'(', ')'}, {'[', ']'}, {'{', '}'},
}

// FindBalancedCharsAt looks for a bracket character exactly at pos and
// returns the range spanning it and its match. ok is false if pos isn't
// on a bracket, or its match is missing because the nesting is
// unbalanced.
func (b *Buffer) FindBalancedCharsAt(pos ByteOffset) (Range, bool) {
	ch, ok := b.ByteAt(pos)
	if !ok {
		return Range{}, false
	}
	for _, pair := range delimiterPairs {
		switch ch {
		case pair.open:
			end, ok := b.scanForward(pos+1, pair.open, pair.close)
			if !ok {
				return Range{}, false
			}
			return Range{Start: pos, End: end + 1}, true
		case pair.close:
			start, ok := b.scanBackward(pos-1, pair.open, pair.close)
			if !ok {
				return Range{}, false
			}
			return Range{Start: start, End: pos + 1}, true
		}
	}
	return Range{}, false
}

// FindDelimiterPairAt returns the innermost bracket pair enclosing pos,
// searching outward for whichever bracket kind encloses it most
// tightly. ok is false if pos is not inside any balanced pair.
func (b *Buffer) FindDelimiterPairAt(pos ByteOffset) (Range, bool) {
	var best Range
	found := false
	for _, pair := range delimiterPairs {
		start, ok := b.enclosingOpen(pos, pair.open, pair.close)
		if !ok {
			continue
		}
		end, ok := b.scanForward(start+1, pair.open, pair.close)
		if !ok {
			continue
		}
		r := Range{Start: start, End: end + 1}
		if !found || r.Start > best.Start {
			best, found = r, true
		}
	}
	return best, found
}

// scanForward finds the matching close for an open bracket already
// consumed just before start, tracking nesting depth.
func (b *Buffer) scanForward(start ByteOffset, open, close byte) (ByteOffset, bool) {
	depth := 1
	for i, n := start, b.Len(); i < n; i++ {
		ch, ok := b.ByteAt(i)
		if !ok {
			break
		}
		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// scanBackward finds the matching open for a close bracket already
// consumed just after start, tracking nesting depth.
func (b *Buffer) scanBackward(start ByteOffset, open, close byte) (ByteOffset, bool) {
	depth := 1
	for i := start; i >= 0; i-- {
		ch, ok := b.ByteAt(i)
		if !ok {
			break
		}
		switch ch {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// enclosingOpen searches backward from pos for an open bracket that has
// not yet been closed by the time pos is reached, i.e. one that encloses
// pos rather than one whose pair already closed before it.
func (b *Buffer) enclosingOpen(pos ByteOffset, open, close byte) (ByteOffset, bool) {
	depth := 0
	for i := pos - 1; i >= 0; i-- {
		ch, ok := b.ByteAt(i)
		if !ok {
			break
		}
		switch ch {
		case close:
			depth++
		case open:
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return 0, false
}
