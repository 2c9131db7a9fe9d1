package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"estateBack/internal/models"
)

type memListings struct {
	mu   sync.Mutex
	rows map[string]models.UserListing
}

func newMemListings(ls ...models.UserListing) *memListings {
	m := &memListings{rows: map[string]models.UserListing{}}
	for _, l := range ls {
		if l.Version == 0 {
			l.Version = 1
		}
		m.rows[l.ID] = l
	}
	return m
}

func (m *memListings) match(l models.UserListing, f models.ListingFilter) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.UserRef != "" && l.UserRef != f.UserRef {
		return false
	}
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.Offer != nil && l.Offer != *f.Offer {
		return false
	}
	if f.SearchTerm != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(f.SearchTerm)) {
		return false
	}
	return true
}

func (m *memListings) FindListings(_ context.Context, f models.ListingFilter) ([]models.UserListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserListing{}
	for _, l := range m.rows {
		if m.match(l, f) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.UserListing{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memListings) GetListing(_ context.Context, id string) (models.UserListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return models.UserListing{}, fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}
	return l, nil
}

func (m *memListings) InsertListing(_ context.Context, l models.UserListing) (models.UserListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[l.ID] = l
	return l, nil
}

func (m *memListings) UpdateListing(_ context.Context, l models.UserListing, expectedVersion int) (models.UserListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[l.ID]
	if !ok {
		return models.UserListing{}, models.ErrListingNotFound
	}
	if expectedVersion > 0 && cur.Version != expectedVersion {
		return models.UserListing{}, models.ErrConflict
	}
	now := time.Now()
	l.Version = cur.Version + 1
	l.UpdatedAt = &now
	m.rows[l.ID] = l
	return l, nil
}

func (m *memListings) SetListingStatus(_ context.Context, id, status, reason string) (models.UserListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return models.UserListing{}, models.ErrListingNotFound
	}
	l.Status = status
	l.RejectReason = reason
	l.Version++
	m.rows[id] = l
	return l, nil
}

func (m *memListings) DeleteListing(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return models.ErrListingNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memListings) deleteByOwner(userRef string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.rows {
		if l.UserRef == userRef {
			delete(m.rows, id)
			n++
		}
	}
	return n
}

func (m *memListings) CountListings(ctx context.Context, f models.ListingFilter) (int, error) {
	f.Limit, f.Offset = 0, 0
	ls, err := m.FindListings(ctx, f)
	return len(ls), err
}

type memCrawled struct {
	rows      []models.CrawledListing
	lastLimit int
	lastQuery models.CrawledFilter
	updates   []models.CrawledUpdate
	err       error
}

func (m *memCrawled) FindCrawled(_ context.Context, f models.CrawledFilter, limit int) ([]models.CrawledListing, error) {
	m.lastLimit, m.lastQuery = limit, f
	if m.err != nil {
		return nil, m.err
	}
	out := append([]models.CrawledListing(nil), m.rows...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memCrawled) GetCrawled(_ context.Context, id string) (models.CrawledListing, error) {
	for _, c := range m.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return models.CrawledListing{}, models.ErrCrawledNotFound
}

func (m *memCrawled) UpdateCrawled(ctx context.Context, id string, u models.CrawledUpdate) (models.CrawledListing, error) {
	m.updates = append(m.updates, u)
	return m.GetCrawled(ctx, id)
}

func (m *memCrawled) DeleteCrawled(_ context.Context, id string) error {
	for i, c := range m.rows {
		if c.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return models.ErrCrawledNotFound
}

func (m *memCrawled) CountCrawled(_ context.Context, _ models.CrawledFilter) (int, error) {
	return len(m.rows), nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[string]models.User

	// listings receives the cascade of DeleteUser when set.
	listings *memListings
	failNext error
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]models.User{}} }

func (m *memUsers) CreateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == u.Email {
			return models.User{}, models.ErrDuplicateEmail
		}
	}
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}

func (m *memUsers) ListUsers(_ context.Context, _, _ int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.rows {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) UpdateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return models.User{}, models.ErrUserNotFound
	}
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) DeleteUser(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return 0, err
	}
	if _, ok := m.rows[id]; !ok {
		return 0, models.ErrUserNotFound
	}
	delete(m.rows, id)
	if m.listings == nil {
		return 0, nil
	}
	return m.listings.deleteByOwner(id), nil
}

type memSessions struct {
	rows map[string]models.Session
}

func (m *memSessions) SaveSession(_ context.Context, token string, s models.Session) error {
	if m.rows == nil {
		m.rows = map[string]models.Session{}
	}
	m.rows[token] = s
	return nil
}

func (m *memSessions) GetSession(_ context.Context, token string) (models.Session, error) {
	s, ok := m.rows[token]
	if !ok {
		return models.Session{}, models.ErrNotFound
	}
	return s, nil
}

func (m *memSessions) DeleteSession(_ context.Context, token string) error {
	delete(m.rows, token)
	return nil
}

type recordedEvents struct {
	events []models.ModerationEvent
}

func (r *recordedEvents) PublishModeration(_ context.Context, ev models.ModerationEvent) error {
	r.events = append(r.events, ev)
	return nil
}

type fakeTokens struct {
	n int
}

func (f *fakeTokens) NewJWT(userID, role string, _ time.Duration) (string, error) {
	return "access:" + userID + ":" + role, nil
}

func (f *fakeTokens) NewRefreshToken() (string, error) {
	f.n++
	return fmt.Sprintf("refresh-%d", f.n), nil
}
