package service

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/constant"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/repository/implementation"
)

func TestToggleRoundTrip(t *testing.T) {
	store := implementation.NewMemoryStore()
	svc := NewCurationService(store, nopLogger{})

	svc.Toggle("a")
	original, err := store.Get(constant.StoreKeyLibraryStarred)
	if err != nil {
		t.Fatalf("starred set not persisted: %v", err)
	}

	// Toggling X twice restores the original membership, and the persisted
	// set matches it exactly.
	svc.Toggle("x")
	if !svc.IsStarred("x") {
		t.Fatal("x should be starred after first toggle")
	}
	svc.Toggle("x")
	if svc.IsStarred("x") {
		t.Fatal("x should be unstarred after second toggle")
	}

	final, err := store.Get(constant.StoreKeyLibraryStarred)
	if err != nil {
		t.Fatalf("starred set not persisted: %v", err)
	}
	if string(original) != string(final) {
		t.Fatalf("persisted set = %s, want %s", final, original)
	}
}

func TestToggleSurvivesPersistFailure(t *testing.T) {
	svc := NewCurationService(&failingStore{}, nopLogger{})

	// Persistence fails but in-memory state stays authoritative.
	if !svc.Toggle("a") {
		t.Fatal("toggle should report starred")
	}
	if !svc.IsStarred("a") {
		t.Fatal("in-memory state must survive a persist failure")
	}
}

func TestLoadCoercesIdsToStrings(t *testing.T) {
	store := implementation.NewMemoryStore()
	store.Set(constant.StoreKeyLibraryStarred, []byte(`["a", 3, "b"]`))

	svc := NewCurationService(store, nopLogger{})
	svc.Load()

	want := []string{"3", "a", "b"}
	if got := svc.Ids(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestLoadUnparseableStartsEmpty(t *testing.T) {
	store := implementation.NewMemoryStore()
	store.Set(constant.StoreKeyLibraryStarred, []byte(`{"not":"an array"}`))

	svc := NewCurationService(store, nopLogger{})
	svc.Load()

	if got := len(svc.Ids()); got != 0 {
		t.Fatalf("ids = %d, want 0 on unparseable record", got)
	}
}

func TestInertIdsAreKept(t *testing.T) {
	store := implementation.NewMemoryStore()
	svc := NewCurationService(store, nopLogger{})

	// Star an id that is not in any catalog, then star another one. The
	// inert id must still be in the persisted set.
	svc.Toggle("ghost")
	svc.Toggle("a")

	data, _ := store.Get(constant.StoreKeyLibraryStarred)
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		t.Fatalf("persisted set unreadable: %v", err)
	}
	want := []string{"a", "ghost"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("persisted ids = %v, want %v", ids, want)
	}
}

type failingStore struct{}

func (failingStore) Get(key string) ([]byte, error)        { return nil, errors.New("storage disabled") }
func (failingStore) Set(key string, value []byte) error    { return errors.New("storage disabled") }
func (failingStore) Delete(key string) error               { return errors.New("storage disabled") }
