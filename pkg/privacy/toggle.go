// Package privacy holds the public/private review visibility switch.
package privacy

// Toggle is a two-state switch between public and private review visibility.
// There is no terminal state; Toggle always flips.
type Toggle struct {
	private bool
	mirror  func(bool)
}

// New creates a toggle in the given initial mode. mirror, if non-nil, is
// called with the new mode after every flip.
func New(initial bool, mirror func(bool)) *Toggle {
	return &Toggle{private: initial, mirror: mirror}
}

// Privacy returns true in private mode
func (t *Toggle) Privacy() bool {
	return t.private
}

// Toggle flips the mode and returns the new one
func (t *Toggle) Toggle() bool {
	t.private = !t.private
	if t.mirror != nil {
		t.mirror(t.private)
	}
	return t.private
}

// String renders the current mode
func (t *Toggle) String() string {
	if t.private {
		return "private"
	}
	return "public"
}
