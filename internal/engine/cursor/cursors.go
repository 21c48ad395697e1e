package cursor

import "sort"

// cursorID stably identifies one selection across a CursorSet's normalize
// pass. Array position is not stable: sorting and merging can move a
// selection to a different index or fold it into a neighbor, but its id
// travels with it, which is what lets Primary keep pointing at the same
// logical cursor across a mutation instead of whichever selection happens
// to land at index 0.
type cursorID uint64

type trackedSelection struct {
	id  cursorID
	sel Selection
}

// CursorSet manages multiple cursors/selections.
// Selections are kept sorted by position and non-overlapping.
// One selection is the "primary" selection, tracked by identity so it
// survives normalize() even when it is merged into a neighbor.
type CursorSet struct {
	items   []trackedSelection
	nextID  cursorID
	primary cursorID
}

func (cs *CursorSet) allocID() cursorID {
	cs.nextID++
	return cs.nextID
}

func (cs *CursorSet) wrap(sels []Selection) []trackedSelection {
	items := make([]trackedSelection, len(sels))
	for i, s := range sels {
		items[i] = trackedSelection{id: cs.allocID(), sel: s}
	}
	return items
}

// NewCursorSet creates a cursor set with a single selection.
func NewCursorSet(initial Selection) *CursorSet {
	cs := &CursorSet{}
	id := cs.allocID()
	cs.items = []trackedSelection{{id: id, sel: initial}}
	cs.primary = id
	return cs
}

// NewCursorSetAt creates a cursor set with a single cursor at the given offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return NewCursorSet(NewCursorSelection(offset))
}

// NewCursorSetFromSlice creates a cursor set from a slice of selections.
// The selections will be normalized (sorted and merged). The primary is
// the first element of the input slice, by identity, even if normalize
// reorders or merges it.
func NewCursorSetFromSlice(selections []Selection) *CursorSet {
	cs := &CursorSet{}
	if len(selections) == 0 {
		id := cs.allocID()
		cs.items = []trackedSelection{{id: id, sel: NewCursorSelection(0)}}
		cs.primary = id
		return cs
	}
	cs.items = cs.wrap(selections)
	cs.primary = cs.items[0].id
	cs.normalize()
	return cs
}

// Primary returns the primary selection.
func (cs *CursorSet) Primary() Selection {
	if it, ok := cs.findPrimary(); ok {
		return it.sel
	}
	return Selection{}
}

// PrimaryCursor returns the head offset of the primary selection.
func (cs *CursorSet) PrimaryCursor() ByteOffset {
	if it, ok := cs.findPrimary(); ok {
		return it.sel.Head
	}
	return 0
}

func (cs *CursorSet) findPrimary() (trackedSelection, bool) {
	for _, it := range cs.items {
		if it.id == cs.primary {
			return it, true
		}
	}
	if len(cs.items) == 0 {
		return trackedSelection{}, false
	}
	return cs.items[0], true
}

func (cs *CursorSet) primaryIndex() int {
	for i, it := range cs.items {
		if it.id == cs.primary {
			return i
		}
	}
	return 0
}

// All returns a copy of all selections.
// The returned slice is safe to modify without affecting the CursorSet.
func (cs *CursorSet) All() []Selection {
	result := make([]Selection, len(cs.items))
	for i, it := range cs.items {
		result[i] = it.sel
	}
	return result
}

// Count returns the number of cursors/selections.
func (cs *CursorSet) Count() int {
	return len(cs.items)
}

// IsMulti returns true if there are multiple selections.
func (cs *CursorSet) IsMulti() bool {
	return len(cs.items) > 1
}

// Get returns the selection at the given index.
// Returns an empty selection if index is out of range.
func (cs *CursorSet) Get(index int) Selection {
	if index < 0 || index >= len(cs.items) {
		return Selection{}
	}
	return cs.items[index].sel
}

// Add adds a new selection, merging with overlapping ones.
func (cs *CursorSet) Add(sel Selection) {
	cs.items = append(cs.items, trackedSelection{id: cs.allocID(), sel: sel})
	cs.normalize()
}

// AddAll adds multiple selections.
func (cs *CursorSet) AddAll(sels []Selection) {
	cs.items = append(cs.items, cs.wrap(sels)...)
	cs.normalize()
}

// SetPrimary sets the primary selection's value, keeping others.
// Unlike array-index replacement, this always updates whichever selection
// is currently primary by identity, then re-normalizes.
func (cs *CursorSet) SetPrimary(sel Selection) {
	if len(cs.items) == 0 {
		id := cs.allocID()
		cs.items = []trackedSelection{{id: id, sel: sel}}
		cs.primary = id
		return
	}
	idx := cs.primaryIndex()
	cs.items[idx].sel = sel
	cs.normalize()
}

// Set replaces all selections with a single selection, which becomes primary.
func (cs *CursorSet) Set(sel Selection) {
	id := cs.allocID()
	cs.items = []trackedSelection{{id: id, sel: sel}}
	cs.primary = id
}

// SetAll replaces all selections. The first of sels becomes primary.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		id := cs.allocID()
		cs.items = []trackedSelection{{id: id, sel: NewCursorSelection(0)}}
		cs.primary = id
		return
	}
	cs.items = cs.wrap(sels)
	cs.primary = cs.items[0].id
	cs.normalize()
}

// Clear removes all selections except primary.
func (cs *CursorSet) Clear() {
	if len(cs.items) > 1 {
		primary, ok := cs.findPrimary()
		if !ok {
			primary = cs.items[0]
		}
		cs.items = []trackedSelection{primary}
		cs.primary = primary.id
	}
}

// Remove removes the selection at the given index.
// If it's the last selection, it's replaced with a cursor at position 0.
// If the removed selection was primary, primary falls back to index 0 of
// what remains.
func (cs *CursorSet) Remove(index int) {
	if index < 0 || index >= len(cs.items) {
		return
	}
	removed := cs.items[index].id
	cs.items = append(cs.items[:index], cs.items[index+1:]...)
	if len(cs.items) == 0 {
		id := cs.allocID()
		cs.items = []trackedSelection{{id: id, sel: NewCursorSelection(0)}}
		cs.primary = id
		return
	}
	if removed == cs.primary {
		cs.primary = cs.items[0].id
	}
}

// RemoveLast removes the last added selection.
func (cs *CursorSet) RemoveLast() {
	if len(cs.items) > 1 {
		removed := cs.items[len(cs.items)-1].id
		cs.items = cs.items[:len(cs.items)-1]
		if removed == cs.primary {
			cs.primary = cs.items[0].id
		}
	}
}

// ForEach calls f for each selection with its index.
func (cs *CursorSet) ForEach(f func(index int, sel Selection)) {
	for i, it := range cs.items {
		f(i, it.sel)
	}
}

// Map applies f to each selection and returns the results.
func (cs *CursorSet) Map(f func(sel Selection) Selection) []Selection {
	result := make([]Selection, len(cs.items))
	for i, it := range cs.items {
		result[i] = f(it.sel)
	}
	return result
}

// MapInPlace applies f to each selection in place.
func (cs *CursorSet) MapInPlace(f func(sel Selection) Selection) {
	for i := range cs.items {
		cs.items[i].sel = f(cs.items[i].sel)
	}
	cs.normalize()
}

// HasSelection returns true if any selection is non-empty (has extent).
func (cs *CursorSet) HasSelection() bool {
	for _, it := range cs.items {
		if !it.sel.IsEmpty() {
			return true
		}
	}
	return false
}

// CollapseAll collapses all selections to cursors at their heads.
func (cs *CursorSet) CollapseAll() {
	for i := range cs.items {
		cs.items[i].sel = cs.items[i].sel.Collapse()
	}
	cs.normalize()
}

// Clamp clamps all selections to the valid range [0, maxOffset].
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	for i := range cs.items {
		cs.items[i].sel = cs.items[i].sel.Clamp(maxOffset)
	}
	cs.normalize()
}

// Clone returns a deep copy of the cursor set, including primary identity.
func (cs *CursorSet) Clone() *CursorSet {
	clone := &CursorSet{
		items:   make([]trackedSelection, len(cs.items)),
		nextID:  cs.nextID,
		primary: cs.primary,
	}
	copy(clone.items, cs.items)
	return clone
}

// Ranges returns all selection ranges (for operations like delete).
func (cs *CursorSet) Ranges() []Range {
	ranges := make([]Range, len(cs.items))
	for i, it := range cs.items {
		ranges[i] = it.sel.Range()
	}
	return ranges
}

// SelectionRanges returns ranges only for non-empty selections.
func (cs *CursorSet) SelectionRanges() []Range {
	var ranges []Range
	for _, it := range cs.items {
		if !it.sel.IsEmpty() {
			ranges = append(ranges, it.sel.Range())
		}
	}
	return ranges
}

// normalize sorts selections by position and merges overlapping or
// adjacent ones. The primary identity is preserved across a merge: when
// one of the two merging selections is primary, the merged selection
// keeps the primary id, so Primary/PrimaryCursor always resolve to the
// cursor that was primary before the mutation, never to whatever lands
// at array index 0.
func (cs *CursorSet) normalize() {
	if len(cs.items) <= 1 {
		return
	}

	sort.Slice(cs.items, func(i, j int) bool {
		si, sj := cs.items[i].sel.Start(), cs.items[j].sel.Start()
		if si != sj {
			return si < sj
		}
		return cs.items[i].sel.End() > cs.items[j].sel.End()
	})

	merged := cs.items[:1]
	for _, it := range cs.items[1:] {
		last := &merged[len(merged)-1]
		if it.sel.Start() <= last.sel.End() {
			last.sel = last.sel.Merge(it.sel)
			if it.id == cs.primary {
				last.id = cs.primary
			}
		} else {
			merged = append(merged, it)
		}
	}
	cs.items = merged
}

// Equals returns true if two cursor sets have the same selections, in the
// same order. Primary identity is not part of selection equality.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil {
		return false
	}
	if cs.Count() != other.Count() {
		return false
	}
	for i, it := range cs.items {
		if !it.sel.Equals(other.items[i].sel) {
			return false
		}
	}
	return true
}
