package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateAdminLevelRequest = validator.UpdateAdminLevelRequest
type UpdateActiveRequest = validator.UpdateActiveRequest
type AssignStudentsRequest = validator.AssignStudentsRequest

// AuthResponse is returned by registration and login. The embedded
// user is the public view; the password hash never serializes.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// ===== SERVICE INTERFACES =====

// AuthService implements the registration and login flows.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetCurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// UserService covers the directory and administrative operations.
type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	Search(ctx context.Context, query string, filters repositories.UserFilters) (*UserListResponse, error)

	// SetAdminLevel is the only mutation that re-derives permissions.
	SetAdminLevel(ctx context.Context, id string, level models.AdminLevel) (*models.User, error)
	SetActive(ctx context.Context, id string, active bool) (*models.User, error)
	AssignStudents(ctx context.Context, proctorID string, studentIDs []string) (*models.User, error)

	ExportRoster(ctx context.Context) (*excelize.File, error)
}

// ServiceManager provides access to all services with lifecycle hooks.
type ServiceManager interface {
	Auth() AuthService
	User() UserService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
