package dto

import "encoding/json"

// Canvas channel message types. Inbound come from the embedded canvas over
// the websocket; outbound are commands pushed to it.
const (
	CanvasMsgReady         = "canvas_ready"
	CanvasMsgSceneChange   = "scene_change"
	CanvasMsgLibraryChange = "library_change"

	CanvasMsgLoadScene     = "load_scene"
	CanvasMsgUpdateLibrary = "update_library"
)

// CanvasEnvelope frames every message on the canvas channel.
type CanvasEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LibraryChangePayload is the canvas reporting its library contents changed.
type LibraryChangePayload struct {
	Items []json.RawMessage `json:"items"`
}
