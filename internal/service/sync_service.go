package service

import (
	"context"
	"sync"
	"time"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/backend"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/entity"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/logger"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/memory"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/session"
)

// ICanvasDelivery is the outbound half of the canvas collaborator boundary,
// implemented by the websocket hub.
type ICanvasDelivery interface {
	LoadScene(doc *dto.Document) error
	UpdateLibrary(entries []entity.LibraryEntry) error
	HasCanvas() bool
}

type ISyncService interface {
	// Bootstrap fetches the authoritative document once per session start.
	// Every failure mode leaves the board empty; nothing propagates.
	Bootstrap(ctx context.Context)

	// SetCanvasReady records the canvas readiness fact and, together with a
	// loaded document, triggers the single reconciliation push.
	SetCanvasReady()

	Document() *dto.Document
	Status() entity.SyncState
}

type syncService struct {
	sess      session.Session
	client    backend.IClient
	hub       ICanvasDelivery
	stateRepo *memory.StateRepository
	logger    logger.ILogger

	mu          sync.Mutex
	doc         *dto.Document
	loaded      bool
	canvasReady bool
	pushed      bool
}

func NewSyncService(
	sess session.Session,
	client backend.IClient,
	hub ICanvasDelivery,
	stateRepo *memory.StateRepository,
	log logger.ILogger,
) ISyncService {
	return &syncService{
		sess:      sess,
		client:    client,
		hub:       hub,
		stateRepo: stateRepo,
		logger:    log,
	}
}

func (s *syncService) Bootstrap(ctx context.Context) {
	res, err := s.client.ReadBoard(ctx, s.sess.ProjectId, s.sess.BoardId)
	if err != nil {
		// No local fallback read: the board simply starts empty.
		s.logger.Warn("Sync", "Bootstrap read failed, starting empty", map[string]interface{}{
			"board": s.sess.Key(), "error": err.Error(),
		})
		return
	}
	if ctx.Err() != nil {
		// Session identity changed mid-flight; discard the result.
		return
	}

	// updatedAt is honored even when the body carries no document.
	if res.UpdatedAt != "" {
		if ts, perr := time.Parse(time.RFC3339, res.UpdatedAt); perr == nil {
			s.updateState(func(state *entity.SyncState) {
				state.LastSavedAt = &ts
			})
		}
	}

	if res.Data == nil {
		return
	}

	s.mu.Lock()
	s.doc = res.Data
	s.loaded = true
	s.pushed = false
	s.mu.Unlock()

	s.updateState(func(state *entity.SyncState) {
		state.Loaded = true
	})
	s.logger.Info("Sync", "Document loaded from remote", map[string]interface{}{"board": s.sess.Key()})

	s.maybePush()
}

func (s *syncService) SetCanvasReady() {
	s.mu.Lock()
	s.canvasReady = true
	s.mu.Unlock()

	s.maybePush()
}

// maybePush issues the reconciliation push when both readiness facts hold.
// Exactly once per loaded document: the pushed flag is set before the
// command goes out, so a rejecting canvas is never retried.
func (s *syncService) maybePush() {
	s.mu.Lock()
	if !s.loaded || !s.canvasReady || s.pushed {
		s.mu.Unlock()
		return
	}
	s.pushed = true
	doc := s.doc
	s.mu.Unlock()

	if err := s.hub.LoadScene(doc); err != nil {
		// Canvas rejected the command; it keeps whatever state it had.
		s.logger.Warn("Sync", "Scene push rejected by canvas", map[string]interface{}{
			"board": s.sess.Key(), "error": err.Error(),
		})
	}
}

func (s *syncService) Document() *dto.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *syncService) Status() entity.SyncState {
	if state, found := s.stateRepo.Get(s.sess.Key()); found {
		return *state
	}
	return entity.SyncState{}
}

func (s *syncService) updateState(mutate func(*entity.SyncState)) {
	state, found := s.stateRepo.Get(s.sess.Key())
	if !found {
		state = &entity.SyncState{}
	}
	next := *state
	mutate(&next)
	s.stateRepo.Save(s.sess.Key(), &next)
}
