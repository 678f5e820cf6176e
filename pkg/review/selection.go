package review

// Selection is the ordered set of review ids checked in the table.
// Order is the order ids were checked in.
type Selection struct {
	ids   []string
	index map[string]int // id to position in ids
}

// NewSelection builds a selection from ids, dropping duplicates
func NewSelection(ids ...string) Selection {
	var s Selection
	s.Replace(ids)
	return s
}

// Replace discards the current selection and takes ids as the new one
func (s *Selection) Replace(ids []string) {
	s.ids = make([]string, 0, len(ids))
	s.index = make(map[string]int, len(ids))
	for _, id := range ids {
		if _, exists := s.index[id]; exists || id == "" {
			continue
		}
		s.index[id] = len(s.ids)
		s.ids = append(s.ids, id)
	}
}

// IDs returns the selected ids in selection order
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether id is selected
func (s Selection) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of selected ids
func (s Selection) Len() int {
	return len(s.ids)
}

// Toggled returns the id list that results from flipping id, leaving s untouched
func (s Selection) Toggled(id string) []string {
	if s.Contains(id) {
		out := make([]string, 0, len(s.ids))
		for _, existing := range s.ids {
			if existing != id {
				out = append(out, existing)
			}
		}
		return out
	}
	return append(s.IDs(), id)
}

// Retain returns the selected ids that satisfy keep, in selection order
func (s Selection) Retain(keep func(id string) bool) []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
