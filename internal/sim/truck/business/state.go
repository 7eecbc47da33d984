// Package business tracks whether the truck is serving.
package business

import "foodtruck.sim/internal/sim/notify"

type State struct {
	open    bool
	changed notify.Hub[bool]
}

func (s *State) IsOpen() bool { return s.open }

func (s *State) OnChange(fn func(open bool)) (cancel func()) { return s.changed.Subscribe(fn) }

// Open reports whether the state changed.
func (s *State) Open() bool { return s.set(true) }

// Close reports whether the state changed.
func (s *State) Close() bool { return s.set(false) }

// Toggle flips the state and returns the new value.
func (s *State) Toggle() bool {
	s.set(!s.open)
	return s.open
}

func (s *State) set(open bool) bool {
	if s.open == open {
		return false
	}
	s.open = open
	s.changed.Emit(open)
	return true
}
