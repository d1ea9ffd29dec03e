package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/identity-service/internal/auth"
	"github.com/SAP-F-2025/identity-service/internal/events"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenService
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(
	repo repositories.Repository,
	tokens *auth.TokenService,
	publisher events.Publisher,
	logger *slog.Logger,
	validator *validator.Validator,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Register runs the single-pass registration flow: validation,
// uniqueness, hashing, permission derivation, persistence, token.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if verr := s.validator.GetBusinessValidator().ValidateRegister(req); verr != nil {
		return nil, verr
	}

	email := models.NormalizeEmail(req.Email)
	s.logger.Info("Registering user", "email", email, "role", req.Role)

	// Pre-check is a fast path for the common case; the unique index on
	// email closes the remaining check-then-insert race.
	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		IsActive:     true,
	}

	switch req.Role {
	case models.RoleStudent:
		user.Student = &models.StudentProfile{
			RollNumber: models.NormalizeCode(req.RollNumber),
			Department: req.Department,
			Semester:   req.Semester,
			Batch:      strings.TrimSpace(req.Batch),
		}
	case models.RoleProctor:
		user.Proctor = &models.ProctorProfile{
			ProctorID:        models.NormalizeCode(req.ProctorID),
			Department:       req.Department,
			AssignedStudents: datatypes.NewJSONSlice([]string{}),
		}
	case models.RoleAdmin:
		level := req.AdminLevel
		if level == "" {
			level = models.AdminLimited
		}
		user.Admin = &models.AdminProfile{
			Department:  req.Department,
			AdminLevel:  level,
			Permissions: datatypes.NewJSONType(models.DerivePermissions(models.RoleAdmin, level)),
		}
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to the unique index; same response as the
			// pre-check.
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.publisher.PublishUserRegistered(ctx, user); err != nil {
		s.logger.Error("Failed to publish registration event", "error", err, "user_id", user.ID)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	return &AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and issues a fresh token. Unknown email
// and wrong password produce the same error value.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if verr := s.validator.GetBusinessValidator().ValidateLogin(req); verr != nil {
		return nil, verr
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Touches last_login only; no re-hash, no permission recompute.
	if err := s.repo.User().UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	now := time.Now()
	user.LastLogin = &now

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.publisher.PublishUserLogin(ctx, user); err != nil {
		s.logger.Error("Failed to publish login event", "error", err, "user_id", user.ID)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
