package session

import "github.com/vamsikrrishnaa/ExcaliChirpul/internal/constant"

// Session is the immutable addressing context for one agent run. It is built
// once from the addressing parameters and threaded through the container;
// nothing mutates it afterwards.
type Session struct {
	ProjectId string // optional; empty means "nothing to save against"
	BoardId   string
	APIBase   string // remote backend origin

	ViewOnly bool
	Theme    string // "light" | "dark"
	Zen      bool
	Grid     bool
	Controls bool
}

// New normalizes raw addressing parameters into a Session.
func New(projectId, boardId, apiBase, mode, theme string, zen, grid, controls bool) Session {
	if boardId == "" {
		boardId = constant.DefaultBoardId
	}
	if theme != "light" && theme != "dark" {
		theme = "light"
	}
	return Session{
		ProjectId: projectId,
		BoardId:   boardId,
		APIBase:   apiBase,
		ViewOnly:  mode == "view",
		Theme:     theme,
		Zen:       zen,
		Grid:      grid,
		Controls:  controls,
	}
}

// Key identifies the session's board for in-memory state repositories.
func (s Session) Key() string {
	return s.ProjectId + "/" + s.BoardId
}
