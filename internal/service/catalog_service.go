package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/constant"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/entity"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/logger"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/contract"
)

type ICatalogService interface {
	// Load reads the persisted catalog and pushes it to the canvas if one
	// is connected. Missing or corrupt data yields an empty catalog.
	Load()

	// ReplaceCatalog swaps the live catalog wholesale, persists it, and
	// pushes the new contents to the canvas.
	ReplaceCatalog(items []json.RawMessage)

	// Clear empties the catalog and its persisted copy (owner controls).
	Clear()

	Entries() []entity.LibraryEntry

	// PresentationView derives the filtered, starred-first projection. Pure
	// over (catalog, curation set, query); recomputed on demand.
	PresentationView(query string) []dto.CatalogViewItem

	// PushToCanvas re-sends the live catalog to the canvas, best effort.
	PushToCanvas()

	// Consume subscribes to library-change events reported by the canvas.
	Consume(ctx context.Context) error
}

type catalogService struct {
	store     contract.ILocalStore
	curation  ICurationService
	hub       ICanvasDelivery
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger

	mu      sync.Mutex
	entries []entity.LibraryEntry
}

func NewCatalogService(
	store contract.ILocalStore,
	curation ICurationService,
	hub ICanvasDelivery,
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) ICatalogService {
	return &catalogService{
		store:     store,
		curation:  curation,
		hub:       hub,
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (s *catalogService) Load() {
	data, err := s.store.Get(constant.StoreKeyLibraryItems)
	if err != nil {
		if err != contract.ErrNotFound {
			s.logger.Warn("Catalog", "Catalog read failed, starting empty", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Catalog", "Catalog unparseable, starting empty", map[string]interface{}{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.entries = buildEntries(items)
	s.mu.Unlock()

	s.PushToCanvas()
}

func (s *catalogService) ReplaceCatalog(items []json.RawMessage) {
	entries := buildEntries(items)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	// The catalog is persisted wholesale here and only here; curation
	// toggles never rewrite it.
	payload, err := json.Marshal(items)
	if err == nil {
		err = s.store.Set(constant.StoreKeyLibraryItems, payload)
	}
	if err != nil {
		s.logger.Warn("Catalog", "Catalog persist failed", map[string]interface{}{"error": err.Error()})
	}

	s.PushToCanvas()
}

func (s *catalogService) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	if err := s.store.Delete(constant.StoreKeyLibraryItems); err != nil {
		s.logger.Warn("Catalog", "Catalog delete failed", map[string]interface{}{"error": err.Error()})
	}

	s.PushToCanvas()
}

func (s *catalogService) Entries() []entity.LibraryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.LibraryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *catalogService) PresentationView(query string) []dto.CatalogViewItem {
	entries := s.Entries()
	needle := strings.ToLower(query)

	matched := make([]dto.CatalogViewItem, 0, len(entries))
	for _, e := range entries {
		if needle != "" && !strings.Contains(strings.ToLower(e.Label), needle) {
			continue
		}
		matched = append(matched, dto.CatalogViewItem{
			Id:      e.Id,
			Label:   e.Label,
			Starred: s.curation.IsStarred(e.Id),
			Raw:     e.Raw,
		})
	}

	// Stable partition, starred first. Two passes keep original catalog
	// order within each half; no secondary key.
	view := make([]dto.CatalogViewItem, 0, len(matched))
	for _, item := range matched {
		if item.Starred {
			view = append(view, item)
		}
	}
	for _, item := range matched {
		if !item.Starred {
			view = append(view, item)
		}
	}
	return view
}

func (s *catalogService) PushToCanvas() {
	if !s.hub.HasCanvas() {
		// Deferred: the container re-pushes once a canvas registers.
		return
	}
	if err := s.hub.UpdateLibrary(s.Entries()); err != nil {
		s.logger.Warn("Catalog", "Library push rejected by canvas", map[string]interface{}{"error": err.Error()})
	}
}

func (s *catalogService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var payload dto.LibraryChangePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				s.logger.Warn("Catalog", "Malformed library change message", map[string]interface{}{"error": err.Error()})
				msg.Ack()
				continue
			}
			s.ReplaceCatalog(payload.Items)
			msg.Ack()
		}
	}()

	return nil
}

// rawLibraryItem is the slice of a raw catalog item the agent actually
// inspects: an optional stable id and the constituent elements scanned for a
// textual label.
type rawLibraryItem struct {
	Id       string `json:"id"`
	Elements []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"elements"`
}

func buildEntries(items []json.RawMessage) []entity.LibraryEntry {
	entries := make([]entity.LibraryEntry, 0, len(items))
	for i, raw := range items {
		entries = append(entries, entity.LibraryEntry{
			Id:    deriveId(raw, i),
			Raw:   raw,
			Label: deriveLabel(raw, i),
		})
	}
	return entries
}

// deriveId prefers the item's own id and falls back to the positional index.
// Positional ids drift when catalog ordering changes between loads.
func deriveId(raw json.RawMessage, index int) string {
	var item rawLibraryItem
	if err := json.Unmarshal(raw, &item); err == nil && item.Id != "" {
		return item.Id
	}
	return strconv.Itoa(index)
}

// deriveLabel takes the first textual sub-element with non-blank content,
// truncated to 60 runes. Anything else, including malformed items, gets the
// positional placeholder.
func deriveLabel(raw json.RawMessage, index int) string {
	placeholder := fmt.Sprintf("Item %d", index+1)

	var item rawLibraryItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return placeholder
	}
	for _, el := range item.Elements {
		if el.Type != "text" {
			continue
		}
		text := strings.TrimSpace(el.Text)
		if text == "" {
			continue
		}
		runes := []rune(text)
		if len(runes) > constant.LabelMaxRunes {
			return string(runes[:constant.LabelMaxRunes])
		}
		return text
	}
	return placeholder
}
