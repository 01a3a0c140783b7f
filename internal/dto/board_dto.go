package dto

import (
	"encoding/json"
	"time"
)

// Document is the canvas's serializable scene state. The agent treats it as
// opaque: malformed content is passed through to the canvas unvalidated.
type Document struct {
	Elements json.RawMessage `json:"elements"`
	AppState json.RawMessage `json:"appState"`
	Files    json.RawMessage `json:"files"`
}

// BoardReadResponse is the backend's document-read body. Both fields are
// optional; updatedAt is honored even when data is absent.
type BoardReadResponse struct {
	Data      *Document `json:"data"`
	UpdatedAt string    `json:"updatedAt"`
}

// BoardSaveResponse is the backend's write acknowledgment.
type BoardSaveResponse struct {
	UpdatedAt string `json:"updatedAt"`
}

// BoardStatusResponse feeds the saving/last-saved indicator.
type BoardStatusResponse struct {
	Loaded      bool       `json:"loaded"`
	Saving      bool       `json:"saving"`
	ViewOnly    bool       `json:"viewOnly"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
}

// SceneChangedMessage is the watermill payload carrying one raw change
// notification from the canvas into the autosave pipeline.
type SceneChangedMessage struct {
	Elements json.RawMessage `json:"elements"`
	AppState json.RawMessage `json:"appState"`
	Files    json.RawMessage `json:"files"`
}

// SessionResponse exposes the resolved addressing parameters to page chrome.
type SessionResponse struct {
	ProjectId string `json:"projectId,omitempty"`
	BoardId   string `json:"boardId"`
	ViewOnly  bool   `json:"viewOnly"`
	Theme     string `json:"theme"`
	Zen       bool   `json:"zen"`
	Grid      bool   `json:"grid"`
	Controls  bool   `json:"controls"`
}
