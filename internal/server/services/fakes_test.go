package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/shares"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// memNotes mimics the SQL semantics of the notes repository in memory.
type memNotes struct {
	mu    sync.Mutex
	notes map[string]*models.Note
	clock func() time.Time
}

func newMemNotes() *memNotes {
	var tick int64
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &memNotes{
		notes: map[string]*models.Note{},
		clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	return &c
}

func (m *memNotes) owned(userID, id string) (*models.Note, bool) {
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return nil, false
	}
	return n, true
}

func (m *memNotes) List(ctx context.Context, userID string, f models.ListFilter) ([]*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(f.Search)
	out := make([]*models.Note, 0)
	for _, n := range m.notes {
		if n.UserID != userID || n.DeletedAt != nil {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(n.Title), search) && !strings.Contains(strings.ToLower(n.Content), search) {
			continue
		}
		if f.Category != "" && f.Category != "all" && string(n.Category) != f.Category {
			continue
		}
		out = append(out, cloneNote(n))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		var less bool
		if f.SortBy == models.SortByTitle {
			less = a.Title < b.Title
		} else {
			less = a.UpdatedAt.Before(b.UpdatedAt)
		}
		if f.Ascending {
			return less
		}
		return !less
	})
	return out, nil
}

func (m *memNotes) ListTrash(ctx context.Context, userID string) ([]*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Note, 0)
	for _, n := range m.notes {
		if n.UserID == userID && n.DeletedAt != nil {
			out = append(out, cloneNote(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (m *memNotes) GetActive(ctx context.Context, userID, id string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.owned(userID, id)
	if !ok || n.DeletedAt != nil {
		return nil, common.ErrorNotFound
	}
	return cloneNote(n), nil
}

func (m *memNotes) Create(ctx context.Context, userID string, in models.NoteInput) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := m.notes[id]; exists {
		return nil, common.ErrorConflict
	}
	now := m.clock()
	n := &models.Note{
		ID: id, UserID: userID, Title: in.Title, Content: in.Content, Category: in.Category,
		IsPinned: in.IsPinned, Color: in.Color, ImageURL: in.ImageURL, ReminderDate: in.ReminderDate,
		CreatedAt: now, UpdatedAt: now,
	}
	m.notes[id] = n
	return cloneNote(n), nil
}

func (m *memNotes) Update(ctx context.Context, userID, id string, p models.NotePatch) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.owned(userID, id)
	if !ok || n.DeletedAt != nil {
		return nil, common.ErrorNotFound
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
	if p.Color != nil {
		n.Color = p.Color
	}
	if p.ImageURL != nil {
		n.ImageURL = p.ImageURL
	}
	if p.ReminderDate != nil {
		n.ReminderDate = p.ReminderDate
	}
	n.UpdatedAt = m.clock()
	return cloneNote(n), nil
}

func (m *memNotes) TogglePin(ctx context.Context, userID, id string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.owned(userID, id)
	if !ok || n.DeletedAt != nil {
		return nil, common.ErrorNotFound
	}
	n.IsPinned = !n.IsPinned
	n.UpdatedAt = m.clock()
	return cloneNote(n), nil
}

func (m *memNotes) SoftDelete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.owned(userID, id)
	if !ok || n.DeletedAt != nil {
		return common.ErrorNotFound
	}
	now := m.clock()
	n.DeletedAt = &now
	return nil
}

func (m *memNotes) Restore(ctx context.Context, userID, id string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.owned(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	n.DeletedAt = nil
	return cloneNote(n), nil
}

func (m *memNotes) Stats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &models.ProfileStats{}
	for _, n := range m.notes {
		if n.UserID != userID || n.DeletedAt != nil {
			continue
		}
		s.TotalNotes++
		if n.IsPinned {
			s.PinnedNotes++
		}
	}
	return s, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User

	getErr error
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*models.User{}} }

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, x := range m.users {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.IsActive = true
	c.CreatedAt = time.Now()
	m.users[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) TouchLastLogin(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	c := *u
	return &c, nil
}

func (m *memUsers) UpdateUsername(ctx context.Context, id, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Username = username
	c := *u
	return &c, nil
}

// add inserts a user directly, bypassing validation.
func (m *memUsers) add(email string, active bool) *models.User {
	u, _ := m.Create(context.Background(), &models.User{Email: email, Username: strings.Split(email, "@")[0]})
	m.users[u.ID].IsActive = active
	u.IsActive = active
	return u
}

type memRefresh struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken

	createErr error
}

func newMemRefresh() *memRefresh { return &memRefresh{tokens: map[string]*models.RefreshToken{}} }

func (m *memRefresh) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: expiresAt}
	return nil
}

func (m *memRefresh) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (m *memRefresh) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, token)
	return nil
}

type memShares struct {
	mu     sync.Mutex
	grants []*models.ShareGrant
	users  *memUsers
}

func (m *memShares) Upsert(ctx context.Context, noteID, userID string, p models.Permission) (*models.ShareGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, g := range m.grants {
		if g.NoteID == noteID && g.SharedWithUserID == userID {
			g.Permission = p
			g.SharedAt = time.Now()
			c := *g
			return &c, nil
		}
	}
	g := &models.ShareGrant{
		ID: uuid.NewString(), NoteID: noteID, SharedWithUserID: userID,
		SharedWithEmail: u.Email, Permission: p, SharedAt: time.Now(),
	}
	m.grants = append(m.grants, g)
	c := *g
	return &c, nil
}

func (m *memShares) ListByNote(ctx context.Context, noteID string) ([]*models.ShareGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.ShareGrant, 0)
	for _, g := range m.grants {
		if g.NoteID == noteID {
			c := *g
			out = append(out, &c)
		}
	}
	return out, nil
}

type memAttachments struct {
	mu    sync.Mutex
	items []*models.Attachment
}

func (m *memAttachments) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *a
	c.ID = uuid.NewString()
	c.UploadedAt = time.Now()
	m.items = append(m.items, &c)
	out := c
	return &out, nil
}

func (m *memAttachments) ListByNote(ctx context.Context, noteID string) ([]*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Attachment, 0)
	for _, a := range m.items {
		if a.NoteID == noteID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memAttachments) Get(ctx context.Context, noteID, id string) (*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.items {
		if a.NoteID == noteID && a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	users       *memUsers
	refresh     *memRefresh
	notes       *memNotes
	shares      *memShares
	attachments *memAttachments
}

func newFakeRepoManager() *fakeRepoManager {
	u := newMemUsers()
	return &fakeRepoManager{
		users:       u,
		refresh:     newMemRefresh(),
		notes:       newMemNotes(),
		shares:      &memShares{users: u},
		attachments: &memAttachments{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notes.Repository                 { return m.notes }
func (m *fakeRepoManager) Shares(db dbx.DBTX) shares.Repository               { return m.shares }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachments.Repository     { return m.attachments }

type fakePresigner struct {
	putErr  error
	lastKey string
	lastCT  string
}

func (p *fakePresigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	if p.putErr != nil {
		return "", p.putErr
	}
	p.lastKey, p.lastCT = key, contentType
	return "https://s3.local/put/" + key, nil
}

func (p *fakePresigner) PresignGet(ctx context.Context, key string) (string, error) {
	p.lastKey = key
	return "https://s3.local/get/" + key, nil
}
