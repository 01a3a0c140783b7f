package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/memory"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/session"
)

func newTestAutosave(sess session.Session, fb *fakeBackend, repo *memory.StateRepository) *autosaveService {
	return &autosaveService{
		sess:      sess,
		client:    fb,
		stateRepo: repo,
		logger:    nopLogger{},
		interval:  20 * time.Millisecond,
	}
}

func change(marker string) dto.SceneChangedMessage {
	return dto.SceneChangedMessage{
		Elements: json.RawMessage(`[{"id":"` + marker + `"}]`),
		AppState: json.RawMessage(`{}`),
		Files:    json.RawMessage(`{}`),
	}
}

func TestDebounceCoalescesToLastChange(t *testing.T) {
	fb := &fakeBackend{saveRes: &dto.BoardSaveResponse{}}
	svc := newTestAutosave(testSession(), fb, memory.NewStateRepository())

	for _, marker := range []string{"a", "b", "c", "d", "e"} {
		svc.NotifyChange(change(marker))
		time.Sleep(2 * time.Millisecond) // well inside the quiet period
	}

	time.Sleep(100 * time.Millisecond)

	saves := fb.saves()
	if len(saves) != 1 {
		t.Fatalf("write requests = %d, want 1", len(saves))
	}
	if string(saves[0].Elements) != `[{"id":"e"}]` {
		t.Fatalf("saved elements = %s, want the last notification's", saves[0].Elements)
	}
}

func TestViewOnlyNeverWrites(t *testing.T) {
	sess := session.New("proj-1", "board-1", "http://backend", "view", "light", false, false, false)
	fb := &fakeBackend{saveRes: &dto.BoardSaveResponse{}}
	svc := newTestAutosave(sess, fb, memory.NewStateRepository())

	for i := 0; i < 10; i++ {
		svc.NotifyChange(change("x"))
	}
	time.Sleep(100 * time.Millisecond)

	if got := len(fb.saves()); got != 0 {
		t.Fatalf("write requests = %d, want 0 in view-only mode", got)
	}
}

func TestNoProjectIdAbortsSilently(t *testing.T) {
	sess := session.New("", "board-1", "http://backend", "", "light", false, false, false)
	fb := &fakeBackend{saveRes: &dto.BoardSaveResponse{}}
	svc := newTestAutosave(sess, fb, memory.NewStateRepository())

	svc.NotifyChange(change("x"))
	time.Sleep(100 * time.Millisecond)

	if got := len(fb.saves()); got != 0 {
		t.Fatalf("write requests = %d, want 0 without a project binding", got)
	}
}

func TestMissingUpdatedAtUsesLocalClock(t *testing.T) {
	fb := &fakeBackend{saveRes: &dto.BoardSaveResponse{}} // no updatedAt
	repo := memory.NewStateRepository()
	svc := newTestAutosave(testSession(), fb, repo)

	before := time.Now()
	svc.NotifyChange(change("x"))
	time.Sleep(100 * time.Millisecond)

	state, found := repo.Get(testSession().Key())
	if !found || state.LastSavedAt == nil {
		t.Fatal("last-saved timestamp should advance on success without updatedAt")
	}
	if state.LastSavedAt.Before(before) {
		t.Fatalf("last-saved %v predates the save attempt %v", state.LastSavedAt, before)
	}
}

func TestServerUpdatedAtIsAuthoritative(t *testing.T) {
	fb := &fakeBackend{saveRes: &dto.BoardSaveResponse{UpdatedAt: "2026-08-01T10:00:00Z"}}
	repo := memory.NewStateRepository()
	svc := newTestAutosave(testSession(), fb, repo)

	svc.NotifyChange(change("x"))
	time.Sleep(100 * time.Millisecond)

	state, _ := repo.Get(testSession().Key())
	if state == nil || state.LastSavedAt == nil {
		t.Fatal("last-saved timestamp missing")
	}
	want := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if !state.LastSavedAt.Equal(want) {
		t.Fatalf("last-saved = %v, want server timestamp %v", state.LastSavedAt, want)
	}
}

func TestInFlightSaveSurvivesNewerChange(t *testing.T) {
	gate := make(chan struct{})
	fb := &fakeBackend{}
	fb.onSave = func(doc *dto.Document) (*dto.BoardSaveResponse, error) {
		if string(doc.Elements) == `[{"id":"first"}]` {
			<-gate // hold the first save in flight
			return &dto.BoardSaveResponse{UpdatedAt: "2026-08-01T10:00:00Z"}, nil
		}
		return &dto.BoardSaveResponse{UpdatedAt: "2026-08-02T12:00:00Z"}, nil
	}
	repo := memory.NewStateRepository()
	svc := newTestAutosave(testSession(), fb, repo)

	svc.NotifyChange(change("first"))
	time.Sleep(60 * time.Millisecond) // first save fires and blocks in flight

	svc.NotifyChange(change("second"))
	time.Sleep(60 * time.Millisecond) // second save fires and settles

	// The first attempt is still out, so the indicator stays up even though
	// the second attempt already settled.
	state, _ := repo.Get(testSession().Key())
	if state == nil || !state.Saving {
		t.Fatal("saving indicator must stay up while an attempt is in flight")
	}

	close(gate) // the first response arrives after the second
	time.Sleep(60 * time.Millisecond)

	if got := len(fb.saves()); got != 2 {
		t.Fatalf("write requests = %d, want 2 (in-flight saves are never cancelled)", got)
	}
	state, _ = repo.Get(testSession().Key())
	if state == nil || state.LastSavedAt == nil {
		t.Fatal("last-saved timestamp missing")
	}
	want := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if !state.LastSavedAt.Equal(want) {
		t.Fatalf("last-saved = %v, want the last-arriving response's %v", state.LastSavedAt, want)
	}
	if state.Saving {
		t.Fatal("saving indicator must clear once every attempt has settled")
	}
}

func TestFailedSaveRevertsSavingIndicator(t *testing.T) {
	fb := &fakeBackend{saveErr: errors.New("network down")}
	repo := memory.NewStateRepository()
	svc := newTestAutosave(testSession(), fb, repo)

	svc.NotifyChange(change("x"))
	time.Sleep(100 * time.Millisecond)

	state, found := repo.Get(testSession().Key())
	if !found {
		t.Fatal("state should exist after a fired save")
	}
	if state.Saving {
		t.Fatal("saving indicator must revert after a failed attempt")
	}
	if state.LastSavedAt != nil {
		t.Fatal("failed save must not advance the last-saved timestamp")
	}
}

func TestForceSaveFiresPendingImmediately(t *testing.T) {
	fb := &fakeBackend{saveRes: &dto.BoardSaveResponse{}}
	svc := newTestAutosave(testSession(), fb, memory.NewStateRepository())
	svc.interval = time.Hour // debounce would never fire on its own

	svc.NotifyChange(change("x"))
	svc.ForceSave()
	time.Sleep(50 * time.Millisecond)

	if got := len(fb.saves()); got != 1 {
		t.Fatalf("write requests = %d, want 1 after force save", got)
	}

	// Nothing pending anymore: force save is a no-op.
	svc.ForceSave()
	time.Sleep(50 * time.Millisecond)
	if got := len(fb.saves()); got != 1 {
		t.Fatalf("write requests = %d, want 1 (no-op without pending changes)", got)
	}
}
