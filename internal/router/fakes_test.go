package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "linkboard/internal/errors"
	"linkboard/internal/model"
	"linkboard/internal/storage"
)

// memStore backs both repositories so post quotas see user limits.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
	posts map[uuid.UUID]*model.Post
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uuid.UUID]*model.User),
		posts: make(map[uuid.UUID]*model.Post),
	}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = user
	return nil
}

func (r memUsers) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.users, id)
	for pid, p := range r.s.posts {
		if p.UserID == id {
			delete(r.s.posts, pid)
		}
	}
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) List(_ context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memPosts struct{ s *memStore }

func (r memPosts) CreateWithinQuota(_ context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, ok := r.s.users[post.UserID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if r.countLocked(post.UserID) >= int64(owner.Limit) {
		return apperrors.ErrQuotaExceeded
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = time.Now()
	cp := *post
	r.s.posts[post.ID] = &cp
	return nil
}

func (r memPosts) Update(_ context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *post
	cp.User = nil
	r.s.posts[post.ID] = &cp
	return nil
}

func (r memPosts) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r memPosts) FindByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPosts) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countLocked(userID), nil
}

func (r memPosts) countLocked(userID uuid.UUID) int64 {
	var n int64
	for _, p := range r.s.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n
}

func (r memPosts) ListWithOwner(ctx context.Context) ([]model.Post, error) {
	posts := r.filter(func(*model.Post) bool { return true })
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range posts {
		if u, ok := r.s.users[posts[i].UserID]; ok {
			cp := *u
			posts[i].User = &cp
		}
	}
	return posts, nil
}

func (r memPosts) ListSummaries(_ context.Context) ([]model.PostSummary, error) {
	posts := r.filter(func(*model.Post) bool { return true })
	out := make([]model.PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, model.PostSummary{ID: p.ID, Title: p.Title, Description: p.Description})
	}
	return out, nil
}

func (r memPosts) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Post, error) {
	return r.filter(func(p *model.Post) bool { return p.UserID == userID }), nil
}

func (r memPosts) ListByApproval(_ context.Context, approval model.Approval) ([]model.Post, error) {
	return r.filter(func(p *model.Post) bool { return p.Approval == approval }), nil
}

func (r memPosts) filter(keep func(*model.Post) bool) []model.Post {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Post
	for _, p := range r.s.posts {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// memAssets records uploads and releases.
type memAssets struct {
	mu       sync.Mutex
	stored   map[string]bool
	released []string
}

func newMemAssets() *memAssets {
	return &memAssets{stored: make(map[string]bool)}
}

func (a *memAssets) Upload(_ context.Context, asset *storage.Asset) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	url := "https://assets.test/posts/" + uuid.NewString() + "-" + strings.ToLower(asset.Name)
	a.stored[url] = true
	return url, nil
}

func (a *memAssets) Delete(_ context.Context, url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.stored, url)
	a.released = append(a.released, url)
	return nil
}

// memRevocations is an in-process token revocation list.
type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memRevocations) RevokeToken(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]bool)
	}
	m.revoked[tokenID] = true
	return nil
}

func (m *memRevocations) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}
