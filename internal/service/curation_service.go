package service

import (
	"encoding/json"
	"sort"
	"strconv"
	"sync"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/constant"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/logger"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/contract"
)

type ICurationService interface {
	// Load reads the persisted starred set. Missing or unparseable data
	// yields an empty set, not an error.
	Load()

	// Toggle flips membership for id and synchronously persists the full
	// resulting set. Returns the new starred status.
	Toggle(id string) bool

	IsStarred(id string) bool
	Ids() []string
}

type curationService struct {
	store  contract.ILocalStore
	logger logger.ILogger

	mu      sync.Mutex
	starred map[string]struct{}
}

func NewCurationService(store contract.ILocalStore, log logger.ILogger) ICurationService {
	return &curationService{
		store:   store,
		logger:  log,
		starred: make(map[string]struct{}),
	}
}

func (s *curationService) Load() {
	data, err := s.store.Get(constant.StoreKeyLibraryStarred)
	if err != nil {
		if err != contract.ErrNotFound {
			s.logger.Warn("Curation", "Starred set read failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	// The stored record is an array of ids; entries are coerced to strings
	// so numeric positional ids from older catalogs keep working.
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("Curation", "Starred set unparseable, starting empty", map[string]interface{}{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range raw {
		switch id := v.(type) {
		case string:
			s.starred[id] = struct{}{}
		case float64:
			s.starred[strconv.FormatFloat(id, 'f', -1, 64)] = struct{}{}
		}
	}
}

func (s *curationService) Toggle(id string) bool {
	s.mu.Lock()
	_, present := s.starred[id]
	if present {
		delete(s.starred, id)
	} else {
		s.starred[id] = struct{}{}
	}
	now := !present
	ids := s.idsLocked()
	s.mu.Unlock()

	// Same-turn persistence; in-memory state stays authoritative even when
	// the write fails.
	payload, _ := json.Marshal(ids)
	if err := s.store.Set(constant.StoreKeyLibraryStarred, payload); err != nil {
		s.logger.Warn("Curation", "Starred set persist failed", map[string]interface{}{"error": err.Error()})
	}

	return now
}

func (s *curationService) IsStarred(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.starred[id]
	return ok
}

func (s *curationService) Ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idsLocked()
}

func (s *curationService) idsLocked() []string {
	ids := make([]string, 0, len(s.starred))
	for id := range s.starred {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic persisted shape
	return ids
}
