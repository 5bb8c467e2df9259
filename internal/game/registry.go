package game

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns every Player record. Games refer to players by id only.
type Registry struct {
	mu      sync.RWMutex
	players map[string]Player
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]Player)}
}

func (r *Registry) Add(name string) Player {
	player := Player{ID: uuid.NewString(), Name: name}
	r.mu.Lock()
	r.players[player.ID] = player
	r.mu.Unlock()
	return player
}

func (r *Registry) Get(id string) (Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.players[id]
	if !ok {
		return Player{}, ErrPlayerNotFound
	}
	return player, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
