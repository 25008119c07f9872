// Package selection tracks the commit whose details are currently shown.
// The selection is ephemeral and independent of HEAD: clicking another
// node replaces it, a checkout does not touch it.
package selection

import "sync/atomic"

type snapshot struct {
	hash string
	row  int
}

type State struct {
	current atomic.Pointer[snapshot]
}

func (s *State) Set(hash string, row int) bool {
	if hash == "" || row < 0 {
		s.Clear()
		return false
	}
	s.current.Store(&snapshot{hash: hash, row: row})
	return true
}

func (s *State) Clear() {
	s.current.Store(nil)
}

func (s *State) Hash() string {
	if snap := s.current.Load(); snap != nil {
		return snap.hash
	}
	return ""
}

func (s *State) Row() int {
	if snap := s.current.Load(); snap != nil {
		return snap.row
	}
	return -1
}
