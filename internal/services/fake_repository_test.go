package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
)

// fakeUserRepository is an in-memory UserRepository that mimics the
// storage contract, including duplicate-key signaling on email.
type fakeUserRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]string // normalized email -> id

	failCreate error // when set, Create returns this error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (f *fakeUserRepository) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return f.failCreate
	}

	email := models.NormalizeEmail(user.Email)
	if _, exists := f.byEmail[email]; exists {
		return gorm.ErrDuplicatedKey
	}

	copied := *user
	copied.CreatedAt = time.Now()
	f.byID[user.ID] = &copied
	f.byEmail[email] = user.ID
	return nil
}

func (f *fakeUserRepository) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byID[user.ID]; !exists {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, exists := f.byID[id]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, exists := f.byID[id]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, exists := f.byEmail[models.NormalizeEmail(email)]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.byID[id]
	return &copied, nil
}

func (f *fakeUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, exists := f.byID[id]; exists {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (f *fakeUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*models.User
	for _, user := range f.byID {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if filters.Query != "" {
			q := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(user.Name), q) && !strings.Contains(user.Email, q) {
				continue
			}
		}
		copied := *user
		matched = append(matched, &copied)
	}

	total := int64(len(matched))
	if filters.Offset >= len(matched) {
		return []*models.User{}, total, nil
	}
	end := len(matched)
	if filters.Limit > 0 && filters.Offset+filters.Limit < end {
		end = filters.Offset + filters.Limit
	}
	return matched[filters.Offset:end], total, nil
}

func (f *fakeUserRepository) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	filters.Query = query
	return f.List(ctx, filters)
}

func (f *fakeUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.byID[id]
	return exists, nil
}

func (f *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.byEmail[models.NormalizeEmail(email)]
	return exists, nil
}

// fakeRepository aggregates the fake user repository.
type fakeRepository struct {
	user *fakeUserRepository
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{user: newFakeUserRepository()}
}

func (f *fakeRepository) User() repositories.UserRepository { return f.user }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// noopPublisher records events without a broker.
type noopPublisher struct {
	mu         sync.Mutex
	registered []string
	logins     []string
}

func (p *noopPublisher) PublishUserRegistered(ctx context.Context, user *models.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, user.ID)
	return nil
}

func (p *noopPublisher) PublishUserLogin(ctx context.Context, user *models.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logins = append(p.logins, user.ID)
	return nil
}

func (p *noopPublisher) Close() error { return nil }
