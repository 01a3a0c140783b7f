package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/entity"
)

type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	// Sync state lives for the whole agent run; the sweep interval only
	// reclaims boards that stopped being addressed.
	c := cache.New(cache.NoExpiration, 10*time.Minute)
	return &StateRepository{
		cache: c,
	}
}

func (r *StateRepository) Save(boardKey string, state *entity.SyncState) {
	r.cache.Set(boardKey, state, cache.DefaultExpiration)
}

func (r *StateRepository) Get(boardKey string) (*entity.SyncState, bool) {
	if x, found := r.cache.Get(boardKey); found {
		return x.(*entity.SyncState), true
	}
	return nil, false
}

func (r *StateRepository) Delete(boardKey string) {
	r.cache.Delete(boardKey)
}
