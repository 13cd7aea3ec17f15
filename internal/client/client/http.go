package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// envelope mirrors the server's response body.
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  []common.FieldError `json:"errors"`
}

type createNoteRequest struct {
	ID           string          `json:"id,omitempty"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Category     models.Category `json:"category,omitempty"`
	IsPinned     bool            `json:"isPinned,omitempty"`
	Color        *string         `json:"color,omitempty"`
	ImageURL     *string         `json:"imageUrl,omitempty"`
	ReminderDate *time.Time      `json:"reminderDate,omitempty"`
}

type HTTPClient struct {
	baseURL string
	hc      *http.Client
	timeout time.Duration
	tokens  TokenSource
	logger  logging.Logger
}

// NewHTTPClient builds a client for the API at baseURL. Each call is bounded
// by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, l logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
		timeout: timeout,
		tokens:  tokens,
		logger:  l.With("module", "http_client"),
	}
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// do performs c and decodes the envelope's data into out (when non-nil).
func (h *HTTPClient) do(ctx context.Context, c call, out any) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var pair models.TokenPair
	if c.auth {
		var err error
		pair, err = h.tokens.Tokens(ctx)
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}
		if pair.AccessToken == "" {
			return ErrNoSession
		}
	}

	env, err := h.send(ctx, c, pair.AccessToken)

	var apiErr *APIError
	if c.auth && errors.As(err, &apiErr) && apiErr.tokenExpired() && pair.RefreshToken != "" {
		h.logger.Debug(ctx, "access token expired, refreshing")
		fresh, rerr := h.refresh(ctx, pair.RefreshToken)
		if rerr != nil {
			return rerr
		}
		env, err = h.send(ctx, c, fresh.AccessToken)
	}
	if err != nil {
		return err
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", c.method, c.path, err)
		}
	}
	return nil
}

func (h *HTTPClient) send(ctx context.Context, c call, token string) (*envelope, error) {
	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	u := h.baseURL + c.path
	if len(c.query) > 0 {
		u += "?" + c.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, c.method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := h.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &APIError{Status: resp.StatusCode, Message: resp.Status}
		}
		return nil, fmt.Errorf("decode %s %s: %w", c.method, c.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	return &env, nil
}

// refresh exchanges the refresh token for a new pair and hands it to the
// token source.
func (h *HTTPClient) refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	env, err := h.send(ctx, call{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   map[string]string{"refreshToken": refreshToken},
	}, "")
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(env.Data, &pair); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if err := h.tokens.SetTokens(ctx, pair); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return &pair, nil
}

func notePath(id string, rest ...string) string {
	p := "/notes/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (h *HTTPClient) Register(ctx context.Context, email, username, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	err := h.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   map[string]string{"email": email, "username": username, "password": password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	err := h.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	return h.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/logout",
		body:   map[string]string{"refreshToken": refreshToken},
	}, nil)
}

func (h *HTTPClient) ListNotes(ctx context.Context, q models.ListQuery) ([]*models.Note, error) {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.SortBy != "" {
		v.Set("sortBy", string(q.SortBy))
	}
	if q.Ascending {
		v.Set("order", "asc")
	}

	var notes []*models.Note
	if err := h.do(ctx, call{method: http.MethodGet, path: "/notes", query: v, auth: true}, &notes); err != nil {
		return nil, err
	}
	return synced(notes), nil
}

func (h *HTTPClient) ListTrash(ctx context.Context) ([]*models.Note, error) {
	var notes []*models.Note
	if err := h.do(ctx, call{method: http.MethodGet, path: "/notes/trash/all", auth: true}, &notes); err != nil {
		return nil, err
	}
	return synced(notes), nil
}

func (h *HTTPClient) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return h.noteCall(ctx, call{method: http.MethodGet, path: notePath(id), auth: true})
}

func (h *HTTPClient) CreateNote(ctx context.Context, n *models.Note) (*models.Note, error) {
	return h.noteCall(ctx, call{
		method: http.MethodPost,
		path:   "/notes",
		auth:   true,
		body: createNoteRequest{
			ID:           n.ID,
			Title:        n.Title,
			Content:      n.Content,
			Category:     n.Category,
			IsPinned:     n.IsPinned,
			Color:        n.Color,
			ImageURL:     n.ImageURL,
			ReminderDate: n.ReminderDate,
		},
	})
}

func (h *HTTPClient) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	return h.noteCall(ctx, call{method: http.MethodPut, path: notePath(id), body: patch, auth: true})
}

func (h *HTTPClient) DeleteNote(ctx context.Context, id string) error {
	return h.do(ctx, call{method: http.MethodDelete, path: notePath(id), auth: true}, nil)
}

func (h *HTTPClient) TogglePin(ctx context.Context, id string) (*models.Note, error) {
	return h.noteCall(ctx, call{method: http.MethodPatch, path: notePath(id, "pin"), auth: true})
}

func (h *HTTPClient) RestoreNote(ctx context.Context, id string) (*models.Note, error) {
	return h.noteCall(ctx, call{method: http.MethodPatch, path: notePath(id, "restore"), auth: true})
}

func (h *HTTPClient) noteCall(ctx context.Context, c call) (*models.Note, error) {
	var n models.Note
	if err := h.do(ctx, c, &n); err != nil {
		return nil, err
	}
	n.SyncState = models.SyncSynced
	return &n, nil
}

func (h *HTTPClient) ShareNote(ctx context.Context, id, email string, permission models.Permission) (*models.ShareGrant, error) {
	var g models.ShareGrant
	err := h.do(ctx, call{
		method: http.MethodPost,
		path:   notePath(id, "share"),
		body:   map[string]string{"email": email, "permission": string(permission)},
		auth:   true,
	}, &g)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (h *HTTPClient) ListShares(ctx context.Context, id string) ([]*models.ShareGrant, error) {
	var grants []*models.ShareGrant
	if err := h.do(ctx, call{method: http.MethodGet, path: notePath(id, "shares"), auth: true}, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (h *HTTPClient) AddAttachment(ctx context.Context, noteID string, in models.AttachmentInput) (*models.AttachmentUpload, error) {
	var up models.AttachmentUpload
	if err := h.do(ctx, call{method: http.MethodPost, path: notePath(noteID, "attachments"), body: in, auth: true}, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

func (h *HTTPClient) AttachmentURL(ctx context.Context, noteID, attachmentID string) (string, error) {
	var res struct {
		URL string `json:"url"`
	}
	err := h.do(ctx, call{
		method: http.MethodGet,
		path:   notePath(noteID, "attachments", url.PathEscape(attachmentID)),
		auth:   true,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

func (h *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := h.do(ctx, call{method: http.MethodGet, path: "/user/profile", auth: true}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *HTTPClient) UpdateProfile(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := h.do(ctx, call{
		method: http.MethodPut,
		path:   "/user/profile",
		body:   map[string]string{"username": username},
		auth:   true,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func synced(notes []*models.Note) []*models.Note {
	for _, n := range notes {
		n.SyncState = models.SyncSynced
	}
	if notes == nil {
		notes = []*models.Note{}
	}
	return notes
}
