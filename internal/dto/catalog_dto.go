package dto

import "encoding/json"

// ReplaceCatalogRequest replaces the catalog wholesale. Items are the raw
// library items exactly as the canvas exports them.
type ReplaceCatalogRequest struct {
	Items []json.RawMessage `json:"items" validate:"required"`
}

// CatalogViewItem is one entry of the derived presentation view.
type CatalogViewItem struct {
	Id      string          `json:"id"`
	Label   string          `json:"label"`
	Starred bool            `json:"starred"`
	Raw     json.RawMessage `json:"raw"`
}

type CatalogViewResponse struct {
	Items []CatalogViewItem `json:"items"`
}

type ToggleStarResponse struct {
	Id      string `json:"id"`
	Starred bool   `json:"starred"`
}
