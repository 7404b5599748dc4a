package dialog

import (
	"sync"

	"main/utils"
)

// Store maps session keys (chat IDs) to dialog state. Each session has
// its own mutex held across the whole state-machine step, so at most one
// transition per session is ever in flight even when the transport
// delivers duplicate or concurrent updates.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

type session struct {
	mu    sync.Mutex
	state State
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*session)}
}

func (s *Store) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[chatID]
	if !ok {
		entry = &session{}
		s.sessions[chatID] = entry
	}
	return entry
}

// Step runs fn under the session lock. fn receives the current state and
// returns the next one; domain operations triggered by the transition
// execute inside the locked region.
func (s *Store) Step(chatID int64, fn func(State) State) {
	entry := s.get(chatID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	prev := entry.state
	next := fn(prev)
	entry.state = next

	if prev.Stage != next.Stage {
		utils.TrackDialogTransition(next.Stage.String())
		if prev.Stage == StageIdle {
			utils.ActiveDialogs.Inc()
		} else if next.Stage == StageIdle {
			utils.ActiveDialogs.Dec()
		}
	}
}

// InProgress reports whether the session has a dialog mid-flight.
func (s *Store) InProgress(chatID int64) bool {
	entry := s.get(chatID)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state.Stage != StageIdle
}

// Reset drops any in-flight dialog for the session.
func (s *Store) Reset(chatID int64) {
	s.Step(chatID, func(State) State { return State{} })
}
