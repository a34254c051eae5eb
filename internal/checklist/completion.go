package checklist

// CompletionState tracks which entries a user has marked done while a checklist view
// is open. Entries never toggled count as unchecked. It is not safe for concurrent
// use; Session adds the locking when the state is shared by HTTP handlers.
type CompletionState struct {
	checked map[string]bool
}

func NewCompletionState() *CompletionState {
	return &CompletionState{checked: make(map[string]bool)}
}

// Toggle flips the checked flag of an entry. A nil state is read-only: every
// entry stays unchecked and Toggle does nothing.
func (s *CompletionState) Toggle(entryID string) {
	if s == nil {
		return
	}
	if s.checked == nil {
		s.checked = make(map[string]bool)
	}
	if s.checked[entryID] {
		delete(s.checked, entryID)
		return
	}
	s.checked[entryID] = true
}

func (s *CompletionState) IsChecked(entryID string) bool {
	if s == nil {
		return false
	}
	return s.checked[entryID]
}

// Reset unchecks everything
func (s *CompletionState) Reset() {
	s.checked = make(map[string]bool)
}

// clone copies the state so a snapshot can be rendered outside the session lock
func (s *CompletionState) clone() *CompletionState {
	c := NewCompletionState()
	if s == nil {
		return c
	}
	for id, v := range s.checked {
		c.checked[id] = v
	}
	return c
}

// CompletionRatio counts checked and total entries across groups.
// An entry id present in two groups (same product on two line items) counts twice.
func CompletionRatio(groups []Group, state *CompletionState) (checked, total int) {
	for _, g := range groups {
		for _, e := range g.Entries {
			total++
			if state.IsChecked(e.ID) {
				checked++
			}
		}
	}
	return checked, total
}
