package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
)

func testDoc() *dto.Document {
	return &dto.Document{
		Elements: json.RawMessage(`[]`),
		AppState: json.RawMessage(`{}`),
		Files:    json.RawMessage(`{}`),
	}
}

func TestReadBoardDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/p1/boards/b1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"elements":[],"appState":{},"files":{}},"updatedAt":"2026-08-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	res, err := client.ReadBoard(context.Background(), "p1", "b1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Data == nil {
		t.Fatal("data missing")
	}
	if res.UpdatedAt != "2026-08-01T10:00:00Z" {
		t.Fatalf("updatedAt = %s", res.UpdatedAt)
	}
}

func TestReadBoardNonOKIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.ReadBoard(context.Background(), "p1", "b1"); err == nil {
		t.Fatal("want error on non-OK status")
	}
}

func TestSaveBoardAttachesCsrfByPriority(t *testing.T) {
	tests := []struct {
		name    string
		cookies []*http.Cookie
		want    string
	}{
		{
			name:    "camel case wins over alternates",
			cookies: []*http.Cookie{{Name: "csrf_token", Value: "under"}, {Name: "csrfToken", Value: "camel"}},
			want:    "camel",
		},
		{
			name:    "dashed beats underscored",
			cookies: []*http.Cookie{{Name: "csrf_token", Value: "under"}, {Name: "csrf-token", Value: "dash"}},
			want:    "dash",
		},
		{
			name:    "empty value falls through",
			cookies: []*http.Cookie{{Name: "csrfToken", Value: ""}, {Name: "csrf_token", Value: "under"}},
			want:    "under",
		},
		{
			name:    "no cookie, no header",
			cookies: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotHeader string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get("X-CSRF-Token")
				w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			base, _ := url.Parse(srv.URL)
			client.Http.Jar.SetCookies(base, tt.cookies)

			if _, err := client.SaveBoard(context.Background(), "p1", "b1", testDoc()); err != nil {
				t.Fatalf("save: %v", err)
			}
			if gotHeader != tt.want {
				t.Fatalf("X-CSRF-Token = %q, want %q", gotHeader, tt.want)
			}
		})
	}
}

func TestSaveBoardSendsFullDocument(t *testing.T) {
	var gotBody dto.Document
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"updatedAt":"2026-08-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	doc := &dto.Document{
		Elements: json.RawMessage(`[{"type":"ellipse"}]`),
		AppState: json.RawMessage(`{"zoom":1}`),
		Files:    json.RawMessage(`{}`),
	}
	res, err := client.SaveBoard(context.Background(), "p1", "b1", doc)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if gotContentType != "application/json" {
		t.Fatalf("content type = %s", gotContentType)
	}
	if string(gotBody.Elements) != `[{"type":"ellipse"}]` {
		t.Fatalf("elements = %s", gotBody.Elements)
	}
	if res.UpdatedAt != "2026-08-01T10:00:00Z" {
		t.Fatalf("updatedAt = %s", res.UpdatedAt)
	}
}

func TestBoardURLEscapesIdentifiers(t *testing.T) {
	client := NewClient("http://backend")
	got := client.boardURL("proj/1", "board 2")
	want := "http://backend/api/projects/proj%2F1/boards/board%202"
	if got != want {
		t.Fatalf("url = %s, want %s", got, want)
	}
}
