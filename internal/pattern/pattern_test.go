package pattern

import (
	"math/rand"
	"testing"
)

func TestScenarioPatternMatch(t *testing.T) {
	p, err := Compile("ab{(!ba)!b}a")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	res := p.Matches("abba", 0)
	if res.Kind != ResultOk || res.N != 4 {
		t.Fatalf("Matches(abba,0) = %+v, want Ok(4)", res)
	}
}

func TestScenarioLiteralSearcherCaseInsensitive(t *testing.T) {
	p, err := CompileSearcher("f/Hello")
	if err != nil {
		t.Fatalf("CompileSearcher: %v", err)
	}
	text := "say hello, HELLO!"
	it := p.NewMatchIndices(text)

	var got [][2]int
	for {
		from, to, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, [2]int{from, to})
	}

	want := [][2]int{{4, 9}, {11, 16}}
	if len(got) != len(want) {
		t.Fatalf("got %v ranges, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("range %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEmptyPatternMatchesEmptyStringAnywhere(t *testing.T) {
	p, err := Compile("")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !p.IsEmpty() {
		t.Fatal("empty pattern source should report IsEmpty")
	}
	for _, text := range []string{"", "abc"} {
		for idx := 0; idx <= len(text); idx++ {
			res := p.Matches(text, idx)
			if res.Kind != ResultOk || res.N != idx {
				t.Fatalf("Matches(%q,%d) = %+v, want Ok(%d)", text, idx, res, idx)
			}
		}
	}
}

func TestWordBoundaryAtTextEdges(t *testing.T) {
	p, err := Compile("%ba")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res := p.Matches("abc", 0); res.Kind != ResultOk || res.N != 1 {
		t.Fatalf("start-of-text boundary: got %+v", res)
	}

	p2, err := Compile("a%b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res := p2.Matches("a", 0); res.Kind != ResultOk || res.N != 1 {
		t.Fatalf("end-of-text boundary: got %+v", res)
	}
}

func TestLiteralSequenceAndGroup(t *testing.T) {
	cases := []struct {
		pattern string
		text    string
		index   int
		wantOk  bool
		wantN   int
	}{
		{"abc", "abcd", 0, true, 3},
		{"abc", "abx", 0, false, 0},
		{"[abc]", "b", 0, true, 1},
		{"[abc]", "z", 0, false, 0},
		{"a|bc", "bc", 0, true, 2},
		{"a|bc", "a", 0, true, 1},
		{"{a}", "aaab", 0, true, 3},
		{"{a}", "b", 0, true, 0},
		{"%d%d", "42x", 0, true, 2},
	}
	for _, c := range cases {
		p, err := Compile(c.pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", c.pattern, err)
		}
		res := p.Matches(c.text, c.index)
		if c.wantOk {
			if res.Kind != ResultOk || res.N != c.wantN {
				t.Errorf("Matches(%q,%q,%d) = %+v, want Ok(%d)", c.pattern, c.text, c.index, res, c.wantN)
			}
		} else if res.Kind == ResultOk {
			t.Errorf("Matches(%q,%q,%d) = %+v, want non-Ok", c.pattern, c.text, c.index, res)
		}
	}
}

// TestMatchesWithStateResumesAcrossChunks checks property 2: feeding text
// in two pieces via Pending/MatchesWithState agrees with matching the
// concatenation in one call.
func TestMatchesWithStateResumesAcrossChunks(t *testing.T) {
	p, err := Compile("abc")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	first := "ab"
	second := "c"
	res1 := p.Matches(first, 0)
	if res1.Kind != ResultPending {
		t.Fatalf("Matches(%q,0) = %+v, want Pending", first, res1)
	}
	res2 := p.MatchesWithState(first+second, len(first), res1.State)
	whole := p.Matches(first+second, 0)
	if res2.Kind != ResultOk || whole.Kind != ResultOk || res2.N != whole.N {
		t.Fatalf("resumed=%+v whole=%+v, want matching Ok", res2, whole)
	}
}

// TestIgnoreCaseCollapsesLowerUpper checks the case-insensitive compile
// path used by the default (no-sigil) searcher.
func TestIgnoreCaseCollapsesLowerUpper(t *testing.T) {
	p, err := CompileSearcher("hello")
	if err != nil {
		t.Fatalf("CompileSearcher: %v", err)
	}
	for _, text := range []string{"hello", "HELLO", "HeLLo"} {
		res := p.Matches(text, 0)
		if res.Kind != ResultOk || res.N != 5 {
			t.Fatalf("Matches(%q,0) = %+v, want Ok(5)", text, res)
		}
	}

	p2, err := CompileSearcher("Hello")
	if err != nil {
		t.Fatalf("CompileSearcher: %v", err)
	}
	if res := p2.Matches("hello", 0); res.Kind == ResultOk {
		t.Fatalf("case-sensitive searcher matched differing case: %+v", res)
	}
}

// referenceMatch is a naive, unoptimized-vs-optimized-agnostic oracle used
// only to fuzz-check property 3 against simple literal/class patterns,
// since this package has no separate optimize() pass to compare against
// (see DESIGN.md): it checks that compiling the same source twice yields
// identical results, guarding against any accidental compiler
// non-determinism.
func referenceMatch(t *testing.T, pattern, text string) Result {
	t.Helper()
	p, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return p.Matches(text, 0)
}

func TestCompileIsDeterministic(t *testing.T) {
	patterns := []string{"abc", "a|bc", "{ab!c}", "[ab]", "(!ab)c", "%a%d%w"}
	rnd := rand.New(rand.NewSource(1))
	alphabet := "abc123 "
	for _, pat := range patterns {
		for i := 0; i < 20; i++ {
			n := rnd.Intn(8)
			buf := make([]byte, n)
			for j := range buf {
				buf[j] = alphabet[rnd.Intn(len(alphabet))]
			}
			text := string(buf)
			r1 := referenceMatch(t, pat, text)
			r2 := referenceMatch(t, pat, text)
			if r1 != r2 {
				t.Fatalf("pattern %q text %q: non-deterministic results %+v vs %+v", pat, text, r1, r2)
			}
		}
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		pattern string
		kind    ErrorKind
	}{
		{"(ab", ErrUnexpectedEndOfPattern},
		{"[ab", ErrUnexpectedEndOfPattern},
		{"()", ErrEmptyGroup},
		{"[]", ErrEmptyGroup},
		{"{}", ErrEmptyGroup},
		{"[a^]", ErrGroupWithElementsOfDifferentSize},
		{"%q", ErrInvalidEscaping},
	}
	for _, c := range cases {
		_, err := Compile(c.pattern)
		if err == nil {
			t.Errorf("Compile(%q): want error kind %v, got nil", c.pattern, c.kind)
			continue
		}
		pe, ok := err.(*Error)
		if !ok {
			t.Errorf("Compile(%q): error is %T, want *Error", c.pattern, err)
			continue
		}
		if pe.Kind != c.kind {
			t.Errorf("Compile(%q): kind = %v, want %v", c.pattern, pe.Kind, c.kind)
		}
	}
}
