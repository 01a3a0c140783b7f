package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/backend"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/constant"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/entity"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/logger"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/memory"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/session"
)

type IAutosaveService interface {
	// NotifyChange records one raw change notification from the canvas.
	// Trailing debounce: a newer change supersedes any unfired ticket.
	NotifyChange(msg dto.SceneChangedMessage)

	// ForceSave fires the pending ticket immediately, skipping the quiet
	// period. No-op when nothing is pending.
	ForceSave()

	// Consume subscribes to the scene-change topic and feeds NotifyChange.
	Consume(ctx context.Context) error
}

type autosaveService struct {
	sess      session.Session
	client    backend.IClient
	stateRepo *memory.StateRepository
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger

	interval time.Duration

	mu         sync.Mutex
	generation uint64
	pending    *dto.SceneChangedMessage
	timer      *time.Timer
	inFlight   int
}

func NewAutosaveService(
	sess session.Session,
	client backend.IClient,
	stateRepo *memory.StateRepository,
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) IAutosaveService {
	return &autosaveService{
		sess:      sess,
		client:    client,
		stateRepo: stateRepo,
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
		interval:  constant.AutosaveDebounce,
	}
}

func (s *autosaveService) NotifyChange(msg dto.SceneChangedMessage) {
	// View-only sessions never write; no scheduling, no cancellation.
	if s.sess.ViewOnly {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The generation token is the ticket: bumping it invalidates any
	// scheduled-but-unfired save. In-flight requests are untouched.
	s.generation++
	gen := s.generation
	s.pending = &msg

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		s.fire(gen)
	})
}

func (s *autosaveService) ForceSave() {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.fire(gen)
}

func (s *autosaveService) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		// Superseded by a newer change before firing.
		s.mu.Unlock()
		return
	}
	msg := s.pending
	s.pending = nil
	s.mu.Unlock()

	if msg == nil {
		return
	}
	// Nothing to save against without a project binding.
	if s.sess.ProjectId == "" {
		return
	}

	s.setSaving(true)
	// Settle the indicator no matter how the attempt ends.
	defer s.setSaving(false)

	doc := &dto.Document{
		Elements: msg.Elements,
		AppState: msg.AppState,
		Files:    msg.Files,
	}

	res, err := s.client.SaveBoard(context.Background(), s.sess.ProjectId, s.sess.BoardId, doc)
	if err != nil {
		// Abandoned silently: no retry, no user-facing error beyond the
		// saving indicator reverting.
		s.logger.Warn("Autosave", "Save failed", map[string]interface{}{
			"board": s.sess.Key(), "error": err.Error(),
		})
		return
	}

	// Server timestamp is authoritative when present; local clock otherwise.
	savedAt := time.Now()
	if res.UpdatedAt != "" {
		if ts, perr := time.Parse(time.RFC3339, res.UpdatedAt); perr == nil {
			savedAt = ts
		}
	}

	// Last-response-wins: a stale response landing after a newer save
	// started still moves the indicator.
	s.updateState(func(state *entity.SyncState) {
		state.LastSavedAt = &savedAt
	})
}

func (s *autosaveService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var payload dto.SceneChangedMessage
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				s.logger.Warn("Autosave", "Malformed scene change message", map[string]interface{}{"error": err.Error()})
				msg.Ack() // never retry malformed payloads
				continue
			}
			s.NotifyChange(payload)
			msg.Ack()
		}
	}()

	return nil
}

// setSaving refcounts overlapping attempts: the indicator clears only when
// the last in-flight save settles.
func (s *autosaveService) setSaving(saving bool) {
	s.mu.Lock()
	if saving {
		s.inFlight++
	} else {
		s.inFlight--
	}
	active := s.inFlight > 0
	s.mu.Unlock()

	s.updateState(func(state *entity.SyncState) {
		state.Saving = active
	})
}

func (s *autosaveService) updateState(mutate func(*entity.SyncState)) {
	state, found := s.stateRepo.Get(s.sess.Key())
	if !found {
		state = &entity.SyncState{}
	}
	next := *state
	mutate(&next)
	s.stateRepo.Save(s.sess.Key(), &next)
}
