package health

import (
	"sync"
	"time"
)

// Status is the believed reachability of the generation service.
type Status string

const (
	StatusChecking Status = "checking"
	StatusOnline   Status = "online"
	StatusBusy     Status = "busy"
	StatusOffline  Status = "offline"
)

// AllowsSubmit reports whether a generation request may be sent. Only offline blocks.
func (s Status) AllowsSubmit() bool { return s != StatusOffline }

// Label is the text shown next to the status indicator.
func (s Status) Label() string {
	switch s {
	case StatusOnline:
		return "Server online"
	case StatusOffline:
		return "Server offline"
	case StatusBusy:
		return "Server busy"
	case StatusChecking:
		return "Checking..."
	default:
		return "Unknown status"
	}
}

// Snapshot is a consistent read of the store.
type Snapshot struct {
	Status    Status    `json:"status"`
	MockMode  bool      `json:"mock_mode"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store holds the process-wide ServerStatus. The monitor and the orchestrator both write it;
// every write replaces the previous belief (last writer wins).
type Store struct {
	mu        sync.RWMutex
	status    Status
	mockMode  bool
	updatedAt time.Time
	now       func() time.Time
}

// NewStore starts in the checking state.
func NewStore() *Store {
	return &Store{status: StatusChecking, now: time.Now}
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Set records a new status and returns the previous one.
func (s *Store) Set(status Status) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.status
	s.status = status
	s.updatedAt = s.now()
	return prev
}

// SetMockMode records whether the service reports it is serving simulated content.
func (s *Store) SetMockMode(mock bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mockMode = mock
}

func (s *Store) MockMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mockMode
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Status: s.status, MockMode: s.mockMode, UpdatedAt: s.updatedAt}
}
