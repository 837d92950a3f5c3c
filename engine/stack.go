package engine

import (
	lua "github.com/yuin/gopher-lua"
)

// Top returns the current stack height.
func (s *State) Top() int {
	return s.L.GetTop()
}

// SetTop sets the stack height, filling with nil when growing.
func (s *State) SetTop(n int) {
	s.L.SetTop(n)
}

// Push pushes a value onto the stack top.
func (s *State) Push(v lua.LValue) {
	s.L.Push(v)
}

// Pop removes n values from the stack top.
func (s *State) Pop(n int) {
	s.L.Pop(n)
}

// Get returns the value at a stack position without removing it. Positions
// are absolute (counted from the bottom) or negative (counted from the
// top). Invalid positions yield nil.
func (s *State) Get(pos int) lua.LValue {
	return s.L.Get(pos)
}

// AbsIndex converts a possibly top-relative position to an absolute one.
func (s *State) AbsIndex(pos int) int {
	if pos >= 0 {
		return pos
	}
	return s.L.GetTop() + pos + 1
}

// PopGuard restores the stack to its recorded height on Release, on every
// exit path. It is the primary defense against stack leaks across the
// recursive resolver and proxy call graph.
type PopGuard struct {
	s        *State
	base     int
	keep     int
	released bool
}

// Guard records the current stack height.
func (s *State) Guard() *PopGuard {
	return &PopGuard{s: s, base: s.L.GetTop()}
}

// Keep declares that n slots above the recorded height are results and must
// survive Release.
func (g *PopGuard) Keep(n int) {
	g.keep = n
}

// Release restores the stack to the recorded height plus any kept results.
// Safe to call more than once.
func (g *PopGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.s.L.SetTop(g.base + g.keep)
}
