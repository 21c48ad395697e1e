package buffer

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/peppered/internal/pattern"
)

// wordPattern matches one run of identifier-kind characters, reusing the
// pattern engine's %w (alnum-or-underscore) class for tokenization
// instead of a hand-rolled scanner: a leading %w guarantees at least one
// character so MatchIndices never reports a zero-length word.
var wordPattern = mustCompileWordPattern()

func mustCompileWordPattern() pattern.Pattern {
	p, err := pattern.Compile("%w{%w}")
	if err != nil {
		panic(err)
	}
	return p
}

// WordDatabase maps identifier-kind word text to the set of buffer
// positions it occurs at. It backs completion-without-LSP and search
// conveniences, and is kept up to date incrementally: an edit only
// rescans the lines it touched rather than the whole buffer.
type WordDatabase struct {
	mu    sync.RWMutex
	words map[string]map[Point]struct{}
}

// NewWordDatabase returns an empty word database.
func NewWordDatabase() *WordDatabase {
	return &WordDatabase{words: make(map[string]map[Point]struct{})}
}

// Rescan discards all entries and rebuilds the database from buf.
func (db *WordDatabase) Rescan(buf *Buffer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.words = make(map[string]map[Point]struct{})
	for line := uint32(0); line < buf.LineCount(); line++ {
		db.scanLineLocked(buf, line)
	}
}

// OnLinesChanged removes stale occurrences recorded for lines
// [startLine, endLine] and re-scans those lines against buf's current
// content. Callers invoke this with the line span an edit touched.
func (db *WordDatabase) OnLinesChanged(buf *Buffer, startLine, endLine uint32) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for line := startLine; line <= endLine; line++ {
		db.removeLineLocked(line)
	}
	lineCount := buf.LineCount()
	for line := startLine; line <= endLine && line < lineCount; line++ {
		db.scanLineLocked(buf, line)
	}
}

func (db *WordDatabase) scanLineLocked(buf *Buffer, line uint32) {
	text := buf.LineText(line)
	it := wordPattern.NewMatchIndices(text)
	for {
		start, end, ok := it.Next()
		if !ok {
			return
		}
		word := text[start:end]
		set, ok := db.words[word]
		if !ok {
			set = make(map[Point]struct{})
			db.words[word] = set
		}
		set[Point{Line: line, Column: uint32(start)}] = struct{}{}
	}
}

func (db *WordDatabase) removeLineLocked(line uint32) {
	for word, set := range db.words {
		for p := range set {
			if p.Line == line {
				delete(set, p)
			}
		}
		if len(set) == 0 {
			delete(db.words, word)
		}
	}
}

// Lookup returns every position word occurs at, sorted by position.
func (db *WordDatabase) Lookup(word string) []Point {
	db.mu.RLock()
	defer db.mu.RUnlock()
	set, ok := db.words[word]
	if !ok {
		return nil
	}
	result := make([]Point, 0, len(set))
	for p := range set {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Compare(result[j]) < 0 })
	return result
}

// WordsWithPrefix returns the distinct words beginning with prefix,
// sorted lexicographically, for completion candidates.
func (db *WordDatabase) WordsWithPrefix(prefix string) []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var words []string
	for w := range db.words {
		if strings.HasPrefix(w, prefix) {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}
