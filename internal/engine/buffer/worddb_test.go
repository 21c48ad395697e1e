package buffer

import "testing"

func TestWordDatabaseRescanFindsOccurrences(t *testing.T) {
	buf := NewBufferFromString("let foo = bar_baz\nfoo(bar_baz)\n")
	db := NewWordDatabase()
	db.Rescan(buf)

	positions := db.Lookup("foo")
	if len(positions) != 2 {
		t.Fatalf("Lookup(foo) = %v, want 2 occurrences", positions)
	}
	if positions[0].Line != 0 || positions[1].Line != 1 {
		t.Fatalf("Lookup(foo) positions not sorted by line: %v", positions)
	}

	if got := db.Lookup("bar_baz"); len(got) != 2 {
		t.Fatalf("Lookup(bar_baz) = %v, want 2 occurrences", got)
	}
	if got := db.Lookup("missing"); got != nil {
		t.Fatalf("Lookup(missing) = %v, want nil", got)
	}
}

func TestWordDatabaseOnLinesChangedRescansOnlyTouchedLines(t *testing.T) {
	buf := NewBufferFromString("alpha\nbeta\ngamma\n")
	db := NewWordDatabase()
	db.Rescan(buf)

	if _, err := buf.Replace(buf.LineStartOffset(1), buf.LineEndOffset(1), "omega"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	db.OnLinesChanged(buf, 1, 1)

	if got := db.Lookup("beta"); got != nil {
		t.Fatalf("stale word beta should be gone, got %v", got)
	}
	if got := db.Lookup("omega"); len(got) != 1 {
		t.Fatalf("Lookup(omega) = %v, want 1 occurrence", got)
	}
	if got := db.Lookup("alpha"); len(got) != 1 {
		t.Fatalf("untouched line's word alpha should survive, got %v", got)
	}
}

func TestWordDatabaseWordsWithPrefix(t *testing.T) {
	buf := NewBufferFromString("cat car card\n")
	db := NewWordDatabase()
	db.Rescan(buf)

	got := db.WordsWithPrefix("car")
	want := []string{"car", "card"}
	if len(got) != len(want) {
		t.Fatalf("WordsWithPrefix(car) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("WordsWithPrefix(car)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
