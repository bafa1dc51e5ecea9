package bench

import "sync"

// Store keeps one bench per user.
type Store struct {
	mu      sync.Mutex
	benches map[int]*Bench
}

func NewStore() *Store {
	return &Store{benches: make(map[int]*Bench)}
}

// Get returns a copy of the user's bench, creating it on first use.
func (s *Store) Get(userID int) Bench {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.get(userID)
}

// Update runs fn on the user's bench under the store lock. Changes are kept
// only when fn succeeds.
func (s *Store) Update(userID int, fn func(b *Bench) error) (Bench, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.get(userID)
	next := *b
	if err := fn(&next); err != nil {
		return *b, err
	}
	*b = next
	return next, nil
}

func (s *Store) get(userID int) *Bench {
	b, ok := s.benches[userID]
	if !ok {
		nb := New()
		b = &nb
		s.benches[userID] = b
	}
	return b
}
