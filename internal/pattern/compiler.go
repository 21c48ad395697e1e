package pattern

// compiler performs a single-pass recursive-descent parse directly into a
// backpatched op array: every atom returns a list of op-field references
// still dangling ("ok" continuations and "err" continuations) for its
// caller to connect once the following code is known. This is the
// classic Thompson-construction backpatch technique, used here instead of
// building a separate AST because the grammar is small and flat enough
// that one pass suffices.
type compiler struct {
	src []rune
	pos int
	ops []Op
}

// patch is one dangling reference: ops[idx].Ok or ops[idx].Err still needs
// to be set to wherever execution should continue.
type patch struct {
	idx   int32
	isErr bool
}

func okPatch(idx int32) patch  { return patch{idx: idx} }
func errPatch(idx int32) patch { return patch{idx: idx, isErr: true} }

func (c *compiler) emit(op Op) int32 {
	c.ops = append(c.ops, op)
	return int32(len(c.ops) - 1)
}

func (c *compiler) apply(refs []patch, target int32) {
	for _, r := range refs {
		if r.isErr {
			c.ops[r.idx].Err = target
		} else {
			c.ops[r.idx].Ok = target
		}
	}
}

func (c *compiler) atEnd() bool { return c.pos >= len(c.src) }

func (c *compiler) peek() (rune, bool) {
	if c.atEnd() {
		return 0, false
	}
	return c.src[c.pos], true
}

func (c *compiler) advance() rune {
	r := c.src[c.pos]
	c.pos++
	return r
}

func (c *compiler) errAt(kind ErrorKind, ch rune) error {
	return &Error{Kind: kind, Position: c.pos, Ch: ch}
}

func (c *compiler) expect(want rune) error {
	r, ok := c.peek()
	if !ok {
		return c.errAt(ErrUnexpectedEndOfPattern, 0)
	}
	if r != want {
		return c.errAt(ErrExpected, want)
	}
	c.advance()
	return nil
}

// compile parses src as a full pattern (atoms optionally separated by '|'
// at the top level) and returns the assembled program.
func compile(src string) (Program, error) {
	runes := []rune(src)
	if len(runes) == 0 {
		return Program{ops: []Op{{Kind: OpError}, {Kind: OpOk}}, start: 1}, nil
	}
	c := &compiler{src: runes}
	c.ops = append(c.ops, Op{Kind: OpError}) // index 0
	c.ops = append(c.ops, Op{Kind: OpOk})     // index 1

	start, err := c.compileAlternation()
	if err != nil {
		return Program{}, err
	}
	if !c.atEnd() {
		return Program{}, c.errAt(ErrExpected, '|')
	}
	if len(c.ops) > maxOps {
		return Program{}, c.errAt(ErrPatternTooLong, 0)
	}
	return Program{ops: c.ops, start: uint16(start)}, nil
}

// compileLiteral compiles a plain string as a single literal match, used
// by the `f`/`F` searcher sigils (spec.md §4.4).
func compileLiteral(src string) (Program, error) {
	ops := []Op{{Kind: OpError}, {Kind: OpOk}}
	ops = append(ops, Op{Kind: OpString, Str: src, Ok: 1, Err: 0})
	return Program{ops: ops, start: 2}, nil
}

// compileAlternation parses `branch ('|' branch)*`. Each branch is a
// sequence; failure of a non-final branch rewinds to the whole match's
// start (via Op::Reset) and tries the next one, matching spec.md's rule
// that '|' only separates complete top-level subpatterns.
func (c *compiler) compileAlternation() (int32, error) {
	branchStart := int32(len(c.ops))
	ok, errRefs, err := c.compileSequence(func(r rune) bool { return r == '|' })
	if err != nil {
		return 0, err
	}
	var allOk []patch
	allOk = append(allOk, ok...)
	pendingErr := errRefs

	for {
		r, has := c.peek()
		if !has || r != '|' {
			break
		}
		c.advance()
		resetIdx := c.emit(Op{Kind: OpReset})
		c.apply(pendingErr, resetIdx)

		nextStart := int32(len(c.ops))
		c.ops[resetIdx].Ok = nextStart

		nok, nerr, err := c.compileSequence(func(r rune) bool { return r == '|' })
		if err != nil {
			return 0, err
		}
		allOk = append(allOk, nok...)
		pendingErr = nerr
	}

	c.apply(pendingErr, 0) // last branch's failure: whole pattern fails
	c.apply(allOk, 1)      // any branch's success: whole pattern matches
	return branchStart, nil
}

// compileSequence parses a concatenation of atoms (AND semantics) until a
// stop rune is seen or input ends. It is used for the top-level sequence
// between '|'s and for parenthesized `( ... )` groups.
func (c *compiler) compileSequence(stop func(rune) bool) (ok []patch, err []patch, e error) {
	var pendingOk []patch
	n := 0
	for {
		r, has := c.peek()
		if !has || stop(r) {
			break
		}
		if pendingOk != nil {
			c.apply(pendingOk, int32(len(c.ops)))
		}
		aok, aerr, _, _, aerrv := c.compileAtom()
		if aerrv != nil {
			return nil, nil, aerrv
		}
		err = append(err, aerr...)
		pendingOk = aok
		n++
	}
	if n == 0 {
		return nil, nil, nil
	}
	return pendingOk, err, nil
}

// compileAtom parses and emits exactly one atom (a literal char, class
// escape, anchor, or one of the bracketed constructs), returning its
// dangling ok/err continuations and, when statically known, its length in
// characters (used by groups and inverted sequences).
func (c *compiler) compileAtom() (ok []patch, err []patch, length int, lengthKnown bool, e error) {
	r, has := c.peek()
	if !has {
		return nil, nil, 0, false, c.errAt(ErrUnexpectedEndOfPattern, 0)
	}

	switch r {
	case '(':
		c.advance()
		return c.compileParenAtom()
	case '[':
		c.advance()
		return c.compileBracketAtom()
	case '{':
		c.advance()
		return c.compileRepeat()
	case '.':
		c.advance()
		idx := c.emit(Op{Kind: OpSkipOne})
		return []patch{okPatch(idx)}, []patch{errPatch(idx)}, 1, true, nil
	case '^':
		c.advance()
		idx := c.emit(Op{Kind: OpBeginAnchor})
		return []patch{okPatch(idx)}, []patch{errPatch(idx)}, 0, true, nil
	case '$':
		c.advance()
		idx := c.emit(Op{Kind: OpEndAnchor})
		return []patch{okPatch(idx)}, []patch{errPatch(idx)}, 0, true, nil
	case ')', ']', '}':
		return nil, nil, 0, false, c.errAt(ErrUnescaped, r)
	case '!':
		return nil, nil, 0, false, c.errAt(ErrUnescaped, r)
	case '|':
		return nil, nil, 0, false, c.errAt(ErrUnescaped, r)
	case '%':
		c.advance()
		return c.compileEscape()
	default:
		c.advance()
		idx := c.emit(Op{Kind: OpChar, Ch: r})
		return []patch{okPatch(idx)}, []patch{errPatch(idx)}, 1, true, nil
	}
}

func (c *compiler) compileEscape() (ok []patch, err []patch, length int, lengthKnown bool, e error) {
	r, has := c.peek()
	if !has {
		return nil, nil, 0, false, c.errAt(ErrUnexpectedEndOfPattern, 0)
	}
	c.advance()
	var kind OpKind
	switch r {
	case 'a':
		kind = OpAlpha
	case 'l':
		kind = OpLower
	case 'u':
		kind = OpUpper
	case 'd':
		kind = OpDigit
	case 'w':
		kind = OpAlnum
	case 'b':
		idx := c.emit(Op{Kind: OpWordBoundary})
		return []patch{okPatch(idx)}, []patch{errPatch(idx)}, 0, true, nil
	case '(', ')', '[', ']', '{', '}', '.', '^', '$', '%', '!', '|':
		idx := c.emit(Op{Kind: OpChar, Ch: r})
		return []patch{okPatch(idx)}, []patch{errPatch(idx)}, 1, true, nil
	default:
		return nil, nil, 0, false, c.errAt(ErrInvalidEscaping, r)
	}
	idx := c.emit(Op{Kind: kind})
	return []patch{okPatch(idx)}, []patch{errPatch(idx)}, 1, true, nil
}

// compileParenAtom handles `( seq )` (plain sequence, AND) and
// `(! seq )` (inverted sequence, zero-width negative lookahead).
func (c *compiler) compileParenAtom() (ok []patch, err []patch, length int, lengthKnown bool, e error) {
	negate := false
	if r, has := c.peek(); has && r == '!' {
		c.advance()
		negate = true
	}
	if negate {
		atoms, trailingOk, lerr := c.collectAtoms(')')
		if lerr != nil {
			return nil, nil, 0, false, lerr
		}
		if err := c.expect(')'); err != nil {
			return nil, nil, 0, false, err
		}
		if len(atoms) == 0 {
			return nil, nil, 0, false, c.errAt(ErrEmptyGroup, ')')
		}
		ok, err := c.compileNegativeLookahead(atoms, trailingOk)
		return ok, err, 0, true, nil
	}

	ok, err, e := c.compileSequence(func(r rune) bool { return r == ')' })
	if e != nil {
		return nil, nil, 0, false, e
	}
	if err2 := c.expect(')'); err2 != nil {
		return nil, nil, 0, false, err2
	}
	if ok == nil && err == nil {
		return nil, nil, 0, false, c.errAt(ErrEmptyGroup, ')')
	}
	return ok, err, 0, false, nil
}

// compileBracketAtom handles `[ a b c ]`: try each element at the current
// position in turn (OR), falling through to the next element on failure.
// All elements must have the same static length, which is what lets
// `[! a b c ]` (negated) unwind by one fixed amount regardless of which
// element matched. Elements are restricted to single primitive atoms
// (char, class escape, anchor) — a documented simplification recorded in
// DESIGN.md, since a compound element could partially consume input
// before failing and would need its own cumulative-unwind bookkeeping.
func (c *compiler) compileBracketAtom() (ok []patch, err []patch, length int, lengthKnown bool, e error) {
	negate := false
	if r, has := c.peek(); has && r == '!' {
		c.advance()
		negate = true
	}

	var allOk []patch
	var pendingErr []patch
	commonLen := -1
	n := 0
	for {
		r, has := c.peek()
		if !has || r == ']' {
			break
		}
		if pendingErr != nil {
			c.apply(pendingErr, int32(len(c.ops)))
		}
		aok, aerr, alen, aknown, aerrv := c.compileAtom()
		if aerrv != nil {
			return nil, nil, 0, false, aerrv
		}
		if !aknown {
			return nil, nil, 0, false, c.errAt(ErrGroupWithElementsOfDifferentSize, ']')
		}
		if commonLen == -1 {
			commonLen = alen
		} else if alen != commonLen {
			return nil, nil, 0, false, c.errAt(ErrGroupWithElementsOfDifferentSize, ']')
		}
		allOk = append(allOk, aok...)
		pendingErr = aerr
		n++
	}
	if err2 := c.expect(']'); err2 != nil {
		return nil, nil, 0, false, err2
	}
	if n == 0 {
		return nil, nil, 0, false, c.errAt(ErrEmptyGroup, ']')
	}

	if !negate {
		return allOk, pendingErr, commonLen, true, nil
	}

	// Negated group: zero-width lookahead. If some element matched
	// (allOk), unwind the commonLen chars it consumed and fail; if every
	// element failed (pendingErr, already unconsumed since elements are
	// single primitive atoms), that is the negation's success.
	unwindIdx := c.emit(Op{Kind: OpUnwind, N: commonLen})
	c.apply(allOk, unwindIdx)
	return pendingErr, []patch{okPatch(unwindIdx)}, 0, true, nil
}

// atomRef is one atom within a flat run collected by collectAtoms: its
// failure continuation and its static length in characters. Consecutive
// atoms are already chained ok -> next atom's start, exactly as in a plain
// sequence; only the last atom's ok continuation is returned separately
// (trailingOk), since what follows it depends on context (here, the
// "every atom matched" path of a negative lookahead).
type atomRef struct {
	err    []patch
	length int
}

// collectAtoms parses and emits a flat run of primitive atoms up to (not
// consuming) the stop rune, chaining each atom's success to the next
// atom's start the same way compileSequence does. Used by inverted
// sequences, where cumulative unwind amounts must be tracked per atom
// rather than assumed uniform (unlike bracket groups, whose elements all
// share one static length).
func (c *compiler) collectAtoms(stop rune) (atoms []atomRef, trailingOk []patch, e error) {
	for {
		r, has := c.peek()
		if !has || r == stop {
			break
		}
		if trailingOk != nil {
			c.apply(trailingOk, int32(len(c.ops)))
		}
		ok, err, length, known, aerr := c.compileAtom()
		if aerr != nil {
			return nil, nil, aerr
		}
		if !known {
			return nil, nil, c.errAt(ErrGroupWithElementsOfDifferentSize, stop)
		}
		atoms = append(atoms, atomRef{err: err, length: length})
		trailingOk = ok
	}
	return atoms, trailingOk, nil
}

// compileNegativeLookahead wires a flat, already-emitted run of atoms into
// a zero-width negative lookahead: the moment one atom fails, the chars
// consumed so far are unwound and the lookahead succeeds; if every atom
// matches in order, the total consumed length is unwound and the
// lookahead fails.
func (c *compiler) compileNegativeLookahead(atoms []atomRef, trailingOk []patch) (ok []patch, err []patch) {
	consumed := 0
	for _, a := range atoms {
		if consumed == 0 {
			// The very first atom failing to match, with nothing yet
			// consumed, is itself the lookahead's zero-width success.
			ok = append(ok, a.err...)
		} else {
			idx := c.emit(Op{Kind: OpUnwind, N: consumed})
			c.apply(a.err, idx)
			ok = append(ok, okPatch(idx))
		}
		consumed += a.length
	}
	allMatchedIdx := c.emit(Op{Kind: OpUnwind, N: consumed})
	c.apply(trailingOk, allMatchedIdx)
	err = append(err, okPatch(allMatchedIdx))
	return ok, err
}

// compileRepeat handles `{ body }`: zero-or-more repetition of the body
// atoms. Atoms directly in the body loop back to the repeat's start on
// success and try the next body atom on failure; a body atom prefixed
// with '!' is a cancel atom — matching it exits the repeat immediately
// instead of looping. Running out of body atoms to try (all fail) is how
// the repeat naturally ends after zero or more iterations.
func (c *compiler) compileRepeat() (ok []patch, err []patch, length int, lengthKnown bool, e error) {
	loopStart := int32(len(c.ops))
	var chainFail []patch
	var exitOk []patch
	n := 0
	for {
		r, has := c.peek()
		if !has || r == '}' {
			break
		}
		if chainFail != nil {
			c.apply(chainFail, int32(len(c.ops)))
		}
		cancel := false
		if r == '!' {
			c.advance()
			cancel = true
		}
		aok, aerr, _, _, aerrv := c.compileAtom()
		if aerrv != nil {
			return nil, nil, 0, false, aerrv
		}
		if cancel {
			exitOk = append(exitOk, aok...)
		} else {
			c.apply(aok, loopStart)
		}
		chainFail = aerr
		n++
	}
	if err2 := c.expect('}'); err2 != nil {
		return nil, nil, 0, false, err2
	}
	if n == 0 {
		return nil, nil, 0, false, c.errAt(ErrEmptyGroup, '}')
	}
	exitOk = append(exitOk, chainFail...)
	return exitOk, nil, 0, false, nil
}
