package review

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("review session not found")

type entry struct {
	session *Session
	setID   string
	viewer  string
	touched time.Time
}

// Store keeps review sessions in memory, keyed by an unguessable ID. Sessions
// left idle longer than the TTL are dropped by Sweep.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entry
	ttl       time.Duration
	now       func() time.Time
	scheduler *gocron.Scheduler
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Start opens a fresh review of cards belonging to the study set for the
// viewer, replacing any review the viewer already had open on that set.
func (s *Store) Start(setID, viewer string, cards []Card) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	for old, e := range s.entries {
		if e.setID == setID && e.viewer == viewer {
			delete(s.entries, old)
		}
	}
	s.entries[id] = &entry{
		session: New(cards),
		setID:   setID,
		viewer:  viewer,
		touched: s.now(),
	}
	return id
}

// Update runs fn on the session while holding the store lock. Sessions are
// only visible to the viewer that started them.
func (s *Store) Update(id, setID, viewer string, fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.setID != setID || viewer == "" || e.viewer != viewer {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.touched = s.now()
	fn(e.session)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until StopSweeper is called.
func (s *Store) StartSweeper(interval time.Duration, onSweep func(removed int)) error {
	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(interval).Do(func() {
		removed := s.Sweep()
		if onSweep != nil {
			onSweep(removed)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule review sweep: %w", err)
	}
	scheduler.StartAsync()

	s.mu.Lock()
	s.scheduler = scheduler
	s.mu.Unlock()
	return nil
}

func (s *Store) StopSweeper() {
	s.mu.Lock()
	scheduler := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
}
