package game

import (
	"sync"

	"github.com/google/uuid"
)

type GameSummary struct {
	ID      string
	State   State
	Players int
	Round   int
}

type entry struct {
	mu        sync.Mutex
	game      Game
	evaluated *signal
}

// Store owns every Game aggregate. The map lock only guards membership; each
// game is serialized by its own lock so different games never contend.
type Store struct {
	mu    sync.RWMutex
	games map[string]*entry
	order []string
}

func NewStore() *Store {
	return &Store{games: make(map[string]*entry)}
}

// Create assigns a fresh id to g and stores it.
func (s *Store) Create(g Game) Game {
	g.ID = uuid.NewString()
	e := &entry{game: g, evaluated: newSignal()}

	s.mu.Lock()
	s.games[g.ID] = e
	s.order = append(s.order, g.ID)
	s.mu.Unlock()

	return g.clone()
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return e, nil
}

// Update runs fn with the game locked and returns a copy of the result. When
// fn fails the game is returned as fn left it, so fn must validate before it
// writes.
func (s *Store) Update(id string, fn func(g *Game) error) (Game, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(&e.game); err != nil {
		return Game{}, err
	}
	return e.game.clone(), nil
}

func (s *Store) Get(id string) (Game, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Game{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.clone(), nil
}

// IDs returns game ids in creation order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func (s *Store) Summaries() []GameSummary {
	ids := s.IDs()
	list := make([]GameSummary, 0, len(ids))
	for _, id := range ids {
		g, err := s.Get(id)
		if err != nil {
			continue
		}
		list = append(list, GameSummary{
			ID:      g.ID,
			State:   g.State,
			Players: len(g.Players),
			Round:   g.CurrentRound,
		})
	}
	return list
}

func (s *Store) signal(id string) (*signal, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.evaluated, nil
}
