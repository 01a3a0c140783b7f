package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/constant"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
)

// IClient is the remote board backend at its interface boundary: one read
// endpoint and one write endpoint per (project, board) pair.
type IClient interface {
	ReadBoard(ctx context.Context, projectId, boardId string) (*dto.BoardReadResponse, error)
	SaveBoard(ctx context.Context, projectId, boardId string, doc *dto.Document) (*dto.BoardSaveResponse, error)
}

type Client struct {
	BaseURL string
	Http    *http.Client
}

// Ensure Client implements IClient
var _ IClient = &Client{}

func NewClient(baseURL string) *Client {
	// The jar stands in for browser credentials: session and CSRF cookies
	// set by the backend ride along on every request.
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		Http: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

func (c *Client) boardURL(projectId, boardId string) string {
	return fmt.Sprintf("%s/api/projects/%s/boards/%s",
		c.BaseURL, url.PathEscape(projectId), url.PathEscape(boardId))
}

func (c *Client) ReadBoard(ctx context.Context, projectId, boardId string) (*dto.BoardReadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.boardURL(projectId, boardId), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend read returned %d: %s", resp.StatusCode, string(body))
	}

	var out dto.BoardReadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("backend read decode: %w", err)
	}
	return &out, nil
}

func (c *Client) SaveBoard(ctx context.Context, projectId, boardId string, doc *dto.Document) (*dto.BoardSaveResponse, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.boardURL(projectId, boardId), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	// Best effort: a missing or unreadable token must never block the save.
	if token := c.csrfToken(); token != "" {
		req.Header.Set(constant.CsrfHeader, token)
	}

	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend save returned %d: %s", resp.StatusCode, string(body))
	}

	var out dto.BoardSaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("backend save decode: %w", err)
	}
	return &out, nil
}

// csrfToken scans the cookie jar for the anti-forgery cookie under its
// alternate spellings, in priority order. First non-empty value wins.
func (c *Client) csrfToken() string {
	if c.Http.Jar == nil {
		return ""
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	cookies := c.Http.Jar.Cookies(base)
	for _, name := range constant.CsrfCookieNames {
		for _, ck := range cookies {
			if ck.Name == name && ck.Value != "" {
				return ck.Value
			}
		}
	}
	return ""
}
