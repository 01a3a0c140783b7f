package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/entity"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/logger"
)

// ErrNoCanvas means a command had no connected canvas to go to.
var ErrNoCanvas = errors.New("canvas: no connected instance")

// Hub owns the websocket side of the canvas collaborator boundary. Inbound
// traffic (readiness, scene changes, library changes) is handed to the
// callbacks below; outbound commands (load_scene, update_library) fan out to
// every connected canvas instance and, when Redis is configured, to peer
// agent instances serving the same board.
type Hub struct {
	// Registered canvas instances, keyed by connection id (a reloaded page
	// reconnects under a fresh id).
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance command relay (nil = single node)
	rdb        *redis.Client
	instanceId string

	logger logger.ILogger

	// Collaborator event callbacks, wired by the container before Run.
	OnReady         func(clientId uuid.UUID)
	OnSceneChange   func(msg dto.SceneChangedMessage)
	OnLibraryChange func(items []json.RawMessage)
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Canvas connected", map[string]interface{}{"client_id": client.Id})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.Id]; ok {
				delete(h.clients, client.Id)
				close(client.Send)
				h.logger.Info("Hub", "Canvas disconnected", map[string]interface{}{"client_id": client.Id})
			}
			h.mu.Unlock()
		}
	}
}

// HasCanvas reports whether at least one canvas instance is connected.
func (h *Hub) HasCanvas() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) > 0
}

// LoadScene pushes a freshly loaded document into the canvas.
func (h *Hub) LoadScene(doc *dto.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return h.command(dto.CanvasMsgLoadScene, payload)
}

// UpdateLibrary replaces the canvas's library panel contents.
func (h *Hub) UpdateLibrary(entries []entity.LibraryEntry) error {
	payload, err := json.Marshal(map[string]interface{}{"entries": entries})
	if err != nil {
		return err
	}
	return h.command(dto.CanvasMsgUpdateLibrary, payload)
}

func (h *Hub) command(msgType string, payload json.RawMessage) error {
	data, err := json.Marshal(dto.CanvasEnvelope{Type: msgType, Payload: payload})
	if err != nil {
		return err
	}

	delivered := h.deliverLocal(data)

	// Relay to peer instances. They deliver to their own local canvases and
	// skip messages they originated themselves.
	if h.rdb != nil {
		relay, _ := json.Marshal(relayEnvelope{Origin: h.instanceId, Message: data})
		h.rdb.Publish(context.Background(), relayChannel, relay)
		// With a relay in play a command is never a local-only concern.
		return nil
	}

	if !delivered {
		return ErrNoCanvas
	}
	return nil
}

func (h *Hub) deliverLocal(data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for _, client := range h.clients {
		select {
		case client.Send <- data:
			delivered = true
		default:
			h.logger.Warn("Hub", "Canvas send buffer full, dropping command", map[string]interface{}{"client_id": client.Id})
		}
	}
	return delivered
}

const relayChannel = "canvas_cluster_events"

type relayEnvelope struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope relayEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Relay message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if envelope.Origin == h.instanceId {
			continue // our own publish
		}
		h.deliverLocal(envelope.Message)
	}
}

// dispatch routes one inbound canvas message to the wired callback. Unknown
// types are ignored; the canvas is an external collaborator and may be newer
// than the agent.
func (h *Hub) dispatch(clientId uuid.UUID, raw []byte) {
	var envelope dto.CanvasEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		h.logger.Warn("Hub", "Inbound canvas message parse error", map[string]interface{}{"error": err.Error()})
		return
	}

	switch envelope.Type {
	case dto.CanvasMsgReady:
		if h.OnReady != nil {
			h.OnReady(clientId)
		}
	case dto.CanvasMsgSceneChange:
		var msg dto.SceneChangedMessage
		if err := json.Unmarshal(envelope.Payload, &msg); err != nil {
			h.logger.Warn("Hub", "Scene change parse error", map[string]interface{}{"error": err.Error()})
			return
		}
		if h.OnSceneChange != nil {
			h.OnSceneChange(msg)
		}
	case dto.CanvasMsgLibraryChange:
		var payload dto.LibraryChangePayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			h.logger.Warn("Hub", "Library change parse error", map[string]interface{}{"error": err.Error()})
			return
		}
		if h.OnLibraryChange != nil {
			h.OnLibraryChange(payload.Items)
		}
	}
}
