package board

// SelectionSink is notified whenever the selection changes. The ids come
// in click order. Implementations must not mutate the slice.
type SelectionSink interface {
	OnSelectionChange(ids []int64)
}

// Selection tracks which slots are selected, preserving click order so bulk
// operations apply deterministically.
type Selection struct {
	ids   map[int64]bool
	order []int64
	sink  SelectionSink
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]bool)}
}

// SetSink installs the change listener. A nil sink disables notification.
func (s *Selection) SetSink(sink SelectionSink) {
	s.sink = sink
}

// Click replaces the selection with the single slot. Clicking empty board
// space clears instead (the model calls Clear for that).
func (s *Selection) Click(id int64) {
	s.ids = make(map[int64]bool)
	s.order = s.order[:0]
	s.ids[id] = true
	s.order = append(s.order, id)
	s.notify()
}

// Toggle adds or removes a slot without touching the rest of the
// selection. This is the ctrl-click path.
func (s *Selection) Toggle(id int64) {
	if s.ids[id] {
		delete(s.ids, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		s.notify()
		return
	}
	s.ids[id] = true
	s.order = append(s.order, id)
	s.notify()
}

// Clear empties the selection.
func (s *Selection) Clear() {
	changed := len(s.order) > 0
	s.ids = make(map[int64]bool)
	s.order = s.order[:0]
	if changed {
		s.notify()
	}
}

func (s *Selection) notify() {
	if s.sink != nil {
		s.sink.OnSelectionChange(s.IDs())
	}
}

// Contains reports whether the slot is selected.
func (s *Selection) Contains(id int64) bool {
	return s.ids[id]
}

// IDs returns the selected slot ids in click order.
func (s *Selection) IDs() []int64 {
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of selected slots.
func (s *Selection) Len() int {
	return len(s.order)
}
