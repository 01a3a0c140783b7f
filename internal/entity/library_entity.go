package entity

import "encoding/json"

// LibraryEntry is one reusable drawing asset in the local catalog. Id falls
// back to the positional index when the raw item carries none, so curation
// can drift if catalog ordering changes between loads. Known gap, kept.
type LibraryEntry struct {
	Id    string          `json:"id"`
	Raw   json.RawMessage `json:"raw"`
	Label string          `json:"label"`
}
