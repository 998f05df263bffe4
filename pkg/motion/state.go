package motion

import (
	"sync"

	"github.com/gwillem/spider/pkg/robot"
)

// State is the robot's current joint vector. Only the Player writes it, and
// only once a segment has completed; readers get copies.
type State struct {
	mu     sync.RWMutex
	angles robot.Vector
}

func newState(v robot.Vector) *State {
	return &State{angles: v.Clone()}
}

// Snapshot returns a copy of the current vector.
func (s *State) Snapshot() robot.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.angles.Clone()
}

func (s *State) set(v robot.Vector) {
	s.mu.Lock()
	s.angles = v.Clone()
	s.mu.Unlock()
}
