package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/review-desk-api/internal/models"
	"github.com/noah-isme/review-desk-api/internal/repository"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
	"github.com/noah-isme/review-desk-api/pkg/token"
)

type fakeAccounts struct {
	mu        sync.Mutex
	byID      map[string]*models.Account
	findCalls int
	err       error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[string]*models.Account)}
}

func (f *fakeAccounts) Create(ctx context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, a := range f.byID {
		if a.Username == account.Username {
			return repository.ErrDuplicate
		}
	}
	if account.ID == "" {
		account.ID = "acct-" + account.Username
	}
	copied := *account
	f.byID[account.ID] = &copied
	return nil
}

func (f *fakeAccounts) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.byID {
		if a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAccounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccounts) ListByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Account, 0)
	for _, a := range all {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) List(ctx context.Context) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Account, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeAccounts) add(id, username string, role models.Role) *models.Account {
	a := &models.Account{ID: id, Username: username, Role: role}
	f.byID[id] = a
	return a
}

type fakeWorkItems struct {
	mu    sync.Mutex
	items map[string]*models.WorkItem
	err   error
}

func newFakeWorkItems() *fakeWorkItems {
	return &fakeWorkItems{items: make(map[string]*models.WorkItem)}
}

func (f *fakeWorkItems) Create(ctx context.Context, item *models.WorkItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeWorkItems) FindByID(ctx context.Context, id string) (*models.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *item
	return &copied, nil
}

func (f *fakeWorkItems) ListByOwner(ctx context.Context, ownerID string) ([]models.WorkItem, error) {
	all, err := f.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.WorkItem, 0)
	for _, item := range all {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeWorkItems) ListAll(ctx context.Context) ([]models.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.WorkItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeWorkItems) Mutate(ctx context.Context, id string, fn func(item *models.WorkItem) error) (*models.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	working := *item
	if err := fn(&working); err != nil {
		return nil, err
	}
	f.items[id] = &working
	result := working
	return &result, nil
}

func (f *fakeWorkItems) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	item, ok := f.items[id]
	if !ok || item.OwnerID != ownerID {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

type memoryCache struct {
	values map[string]models.Account
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]models.Account)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*models.Account)) = v
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value.(models.Account)
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

func newTokenManager(now func() time.Time) *token.Manager {
	m, err := token.NewManager(token.Config{Secret: "test-secret", TTL: time.Hour, Issuer: "test", Now: now})
	if err != nil {
		panic(err)
	}
	return m
}
