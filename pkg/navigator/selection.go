package navigator

// SelectionList is a cyclic cursor over an ordered item sequence.
//
// The cursor is optional: a fresh list starts unselected. When the cursor is
// cleared with Unselect, the last good index is remembered and Next or
// Previous restore it instead of jumping to the start.
type SelectionList[T any] struct {
	items    []T
	cursor   int
	selected bool
	last     int
	hasLast  bool
}

// NewSelectionList wraps items with no selection.
func NewSelectionList[T any](items []T) *SelectionList[T] {
	return &SelectionList[T]{items: items}
}

// Items returns the underlying items. Callers must not modify the slice.
func (s *SelectionList[T]) Items() []T { return s.items }

// Len returns the number of items.
func (s *SelectionList[T]) Len() int { return len(s.items) }

// Selected returns the cursor index and whether anything is selected.
func (s *SelectionList[T]) Selected() (int, bool) {
	return s.cursor, s.selected
}

// SelectedItem returns the item under the cursor.
func (s *SelectionList[T]) SelectedItem() (T, bool) {
	var zero T
	if !s.selected || s.cursor >= len(s.items) {
		return zero, false
	}
	return s.items[s.cursor], true
}

// Select moves the cursor to i. Out of range indices are ignored.
func (s *SelectionList[T]) Select(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.cursor = i
	s.selected = true
}

// Unselect clears the cursor, remembering its position for Next/Previous.
func (s *SelectionList[T]) Unselect() {
	if s.selected {
		s.last = s.cursor
		s.hasLast = true
	}
	s.selected = false
}

// Next advances the cursor, wrapping from the last item to the first.
func (s *SelectionList[T]) Next() {
	n := len(s.items)
	if n == 0 {
		return
	}
	if !s.selected {
		s.Select(s.restore())
		return
	}
	s.Select((s.cursor + 1) % n)
}

// Previous moves the cursor back, wrapping from the first item to the last.
func (s *SelectionList[T]) Previous() {
	n := len(s.items)
	if n == 0 {
		return
	}
	if !s.selected {
		s.Select(s.restore())
		return
	}
	s.Select((s.cursor - 1 + n) % n)
}

// First jumps to the first item.
func (s *SelectionList[T]) First() {
	s.Select(0)
}

// Last jumps to the last item.
func (s *SelectionList[T]) Last() {
	s.Select(len(s.items) - 1)
}

// restore returns the remembered index clamped to the list, or 0.
func (s *SelectionList[T]) restore() int {
	if !s.hasLast {
		return 0
	}
	if s.last >= len(s.items) {
		return len(s.items) - 1
	}
	return s.last
}
