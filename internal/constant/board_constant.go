package constant

import "time"

// Debounce window for the autosave pipeline. A save fires only after this
// quiet period with no further scene changes (trailing edge).
const AutosaveDebounce = 1000 * time.Millisecond

// Local store keys. Catalog and curation are intentionally board-independent:
// the asset library is shared by every board in the same profile.
const (
	StoreKeyLibraryItems   = "library-items"
	StoreKeyLibraryStarred = "library-starred"

	// Reserved legacy per-board key pattern. Bootstrap is remote-only and
	// never reads it, but the namespace stays claimed.
	StoreKeyBoardContentPrefix = "board-content:"
)

// Default board identifier when addressing parameters carry none.
const DefaultBoardId = "default"

// CSRF cookie names, checked in priority order. First non-empty value wins.
var CsrfCookieNames = []string{"csrfToken", "csrf-token", "csrf_token"}

// Header carrying the anti-forgery token on backend writes.
const CsrfHeader = "X-CSRF-Token"

// Watermill topics.
const (
	TopicSceneChanged   = "BOARD_SCENE_CHANGED"
	TopicLibraryChanged = "BOARD_LIBRARY_CHANGED"
)

// Derived label cap for catalog entries.
const LabelMaxRunes = 60
