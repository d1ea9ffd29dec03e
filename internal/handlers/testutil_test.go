package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/identity-service/internal/auth"
	"github.com/SAP-F-2025/identity-service/internal/config"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// memoryUserRepo is an in-memory UserRepository for HTTP-level tests.
type memoryUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return gorm.ErrDuplicatedKey
	}
	copied := *user
	copied.CreatedAt = time.Now()
	r.byID[user.ID] = &copied
	r.byEmail[email] = user.ID
	return nil
}

func (r *memoryUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[user.ID]; !exists {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.byID[id]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.byID[id]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, exists := r.byEmail[models.NormalizeEmail(email)]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *memoryUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, exists := r.byID[id]; exists {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, nil
}

func (r *memoryUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.User
	for _, user := range r.byID {
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

func (r *memoryUserRepo) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	filters.Query = query
	return r.List(ctx, filters)
}

func (r *memoryUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.byID[id]
	return exists, nil
}

func (r *memoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.byEmail[models.NormalizeEmail(email)]
	return exists, nil
}

type memoryRepo struct {
	user *memoryUserRepo
}

func (m *memoryRepo) User() repositories.UserRepository { return m.user }

func (m *memoryRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memoryRepo) Ping(ctx context.Context) error { return nil }
func (m *memoryRepo) Close() error                   { return nil }

type silentPublisher struct{}

func (silentPublisher) PublishUserRegistered(ctx context.Context, user *models.User) error {
	return nil
}
func (silentPublisher) PublishUserLogin(ctx context.Context, user *models.User) error { return nil }
func (silentPublisher) Close() error                                                  { return nil }

// newTestRouter wires the full HTTP stack over an in-memory repository.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memoryRepo{user: newMemoryUserRepo()}
	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogger)

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	v := validator.New()
	sm := services.NewDefaultServiceManager(repo, slogger, v, tokens, silentPublisher{})
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	cfg := &config.Config{Environment: "test"}
	hm := NewHandlerManager(sm, v, tokens, repo.User(), logger, cfg)

	router := gin.New()
	hm.SetupRoutes(router)
	return router
}

func performRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func decodeAuth(t *testing.T, w *httptest.ResponseRecorder) services.AuthResponse {
	t.Helper()
	var resp services.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode auth body %q: %v", w.Body.String(), err)
	}
	return resp
}

func registerUser(t *testing.T, router *gin.Engine, req services.RegisterRequest) services.AuthResponse {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/api/v1/auth/register", "", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", req.Email, w.Code, w.Body.String())
	}
	return decodeAuth(t, w)
}

func studentRequest(email string) services.RegisterRequest {
	return services.RegisterRequest{
		Name:       "A",
		Email:      email,
		Password:   "secret1",
		Role:       models.RoleStudent,
		RollNumber: "r-" + email,
		Department: models.DeptCSE,
		Semester:   3,
		Batch:      "2024",
	}
}

func proctorRequest(email string) services.RegisterRequest {
	return services.RegisterRequest{
		Name:       "Proctor",
		Email:      email,
		Password:   "secret1",
		Role:       models.RoleProctor,
		ProctorID:  "pc-" + email,
		Department: models.DeptECE,
	}
}

func adminRequest(email string, level models.AdminLevel) services.RegisterRequest {
	return services.RegisterRequest{
		Name:       "Admin",
		Email:      email,
		Password:   "secret1",
		Role:       models.RoleAdmin,
		Department: models.DeptIT,
		AdminLevel: level,
	}
}
