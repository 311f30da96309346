// Copyright 2026 The vkview Authors. All rights reserved.

// Package scope implements a stack of release functions
// that run in reverse order of acquisition.
package scope

import (
	"log/slog"
)

type entry struct {
	name string
	fn   func()
}

// Stack is a LIFO list of release functions.
// The zero value is an empty stack.
type Stack struct {
	s []entry
}

// Push adds a release function named name.
func (s *Stack) Push(name string, fn func()) {
	s.s = append(s.s, entry{name, fn})
}

// Len returns the number of pending release functions.
func (s *Stack) Len() int { return len(s.s) }

// Names returns the names of pending release functions,
// in the order they will run.
func (s *Stack) Names() []string {
	names := make([]string, len(s.s))
	for i := range s.s {
		names[i] = s.s[len(s.s)-1-i].name
	}
	return names
}

// Unwind runs every release function, most recent first,
// and empties the stack.
func (s *Stack) Unwind() {
	for len(s.s) > 0 {
		e := s.s[len(s.s)-1]
		s.s = s.s[:len(s.s)-1]
		slog.Debug("release", "resource", e.name)
		e.fn()
	}
}

// Release runs the release function of the most recent
// entry and removes it. It does nothing if the stack is
// empty.
func (s *Stack) Release() {
	if len(s.s) == 0 {
		return
	}
	e := s.s[len(s.s)-1]
	s.s = s.s[:len(s.s)-1]
	e.fn()
}

// Guard runs s.Unwind if *err is not nil. It is meant
// to be deferred by functions that push onto s and
// must release everything on failure.
func (s *Stack) Guard(err *error) {
	if *err != nil {
		s.Unwind()
	}
}
