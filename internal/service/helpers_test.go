package service

import (
	"context"
	"sync"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeBackend scripts the remote board backend.
type fakeBackend struct {
	mu sync.Mutex

	readRes *dto.BoardReadResponse
	readErr error

	saveRes  *dto.BoardSaveResponse
	saveErr  error
	saveDocs []*dto.Document

	// onSave, when set, decides the response per call. Lets tests block a
	// save in flight or vary timestamps across calls.
	onSave func(doc *dto.Document) (*dto.BoardSaveResponse, error)
}

func (f *fakeBackend) ReadBoard(ctx context.Context, projectId, boardId string) (*dto.BoardReadResponse, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.readRes, nil
}

func (f *fakeBackend) SaveBoard(ctx context.Context, projectId, boardId string, doc *dto.Document) (*dto.BoardSaveResponse, error) {
	f.mu.Lock()
	f.saveDocs = append(f.saveDocs, doc)
	onSave := f.onSave
	f.mu.Unlock()
	if onSave != nil {
		return onSave(doc)
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.saveRes, nil
}

func (f *fakeBackend) saves() []*dto.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*dto.Document, len(f.saveDocs))
	copy(out, f.saveDocs)
	return out
}

// fakeCanvas records commands crossing the collaborator boundary.
type fakeCanvas struct {
	mu sync.Mutex

	connected bool
	loadErr   error
	updateErr error

	loadedDocs []*dto.Document
	libraries  [][]entity.LibraryEntry
}

func (f *fakeCanvas) LoadScene(doc *dto.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loadedDocs = append(f.loadedDocs, doc)
	return nil
}

func (f *fakeCanvas) UpdateLibrary(entries []entity.LibraryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.libraries = append(f.libraries, entries)
	return nil
}

func (f *fakeCanvas) HasCanvas() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeCanvas) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loadedDocs)
}
