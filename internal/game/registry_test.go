package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryConcurrentAdds(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = reg.Add("player").ID
		}(i)
	}
	wg.Wait()

	require.Equal(t, len(ids), reg.Len())
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		require.False(t, seen[id])
		seen[id] = true
		p, err := reg.Get(id)
		require.NoError(t, err)
		require.Equal(t, "player", p.Name)
	}
}
