package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  (filters.Offset / max(filters.Limit, 1)) + 1,
		Size:  filters.Limit,
	}, nil
}

func (s *userService) Search(ctx context.Context, query string, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().Search(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  (filters.Offset / max(filters.Limit, 1)) + 1,
		Size:  filters.Limit,
	}, nil
}

// SetAdminLevel changes an admin's level and re-derives permissions in
// the same mutation. No other update path touches permissions.
func (s *userService) SetAdminLevel(ctx context.Context, id string, level models.AdminLevel) (*models.User, error) {
	if !models.ValidAdminLevel(level) {
		return nil, validator.NewValidationError("adminLevel", "Invalid admin level")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleAdmin || user.Admin == nil {
		return nil, validator.NewValidationError("role", "User is not an admin")
	}

	if user.Admin.AdminLevel == level {
		return user, nil
	}

	user.Admin.AdminLevel = level
	user.Admin.Permissions = datatypes.NewJSONType(models.DerivePermissions(models.RoleAdmin, level))

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update admin level: %w", err)
	}

	s.logger.Info("Admin level changed", "user_id", user.ID, "admin_level", level)

	return user, nil
}

// SetActive flips the active flag. Existing tokens stay valid until
// expiry; deactivation only blocks future logins.
func (s *userService) SetActive(ctx context.Context, id string, active bool) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsActive == active {
		return user, nil
	}

	user.IsActive = active
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update active status: %w", err)
	}

	s.logger.Info("Account status changed", "user_id", user.ID, "is_active", active)

	return user, nil
}

// AssignStudents replaces a proctor's assigned student id list.
func (s *userService) AssignStudents(ctx context.Context, proctorID string, studentIDs []string) (*models.User, error) {
	user, err := s.GetByID(ctx, proctorID)
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleProctor || user.Proctor == nil {
		return nil, validator.NewValidationError("role", "User is not a proctor")
	}

	students, err := s.repo.User().GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve students: %w", err)
	}
	found := make(map[string]models.UserRole, len(students))
	for _, student := range students {
		found[student.ID] = student.Role
	}
	for _, id := range studentIDs {
		role, ok := found[id]
		if !ok {
			return nil, validator.NewValidationError("studentIds", fmt.Sprintf("Student %s not found", id))
		}
		if role != models.RoleStudent {
			return nil, validator.NewValidationError("studentIds", fmt.Sprintf("User %s is not a student", id))
		}
	}

	user.Proctor.AssignedStudents = datatypes.NewJSONSlice(studentIDs)
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to assign students: %w", err)
	}

	s.logger.Info("Students assigned", "proctor_id", user.ID, "count", len(studentIDs))

	return user, nil
}

// ExportRoster builds an xlsx workbook of all accounts for admins
// holding the exportReports capability.
func (s *userService) ExportRoster(ctx context.Context) (*excelize.File, error) {
	const pageSize = 500

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []interface{}{"ID", "Name", "Email", "Role", "Department", "Roll Number", "Proctor ID", "Admin Level", "Active", "Last Login", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for offset := 0; ; offset += pageSize {
		users, _, err := s.repo.User().List(ctx, repositories.UserFilters{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("failed to list users for export: %w", err)
		}
		if len(users) == 0 {
			break
		}

		for _, user := range users {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetSheetRow(sheet, cell, rosterRow(user)); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
			row++
		}

		if len(users) < pageSize {
			break
		}
	}

	s.logger.Info("Roster exported", "rows", row-2)

	return f, nil
}

func rosterRow(user *models.User) *[]interface{} {
	var department, rollNumber, proctorID, adminLevel string
	switch {
	case user.Student != nil:
		department = string(user.Student.Department)
		rollNumber = user.Student.RollNumber
	case user.Proctor != nil:
		department = string(user.Proctor.Department)
		proctorID = user.Proctor.ProctorID
	case user.Admin != nil:
		department = string(user.Admin.Department)
		adminLevel = string(user.Admin.AdminLevel)
	}

	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Format("2006-01-02 15:04:05")
	}

	return &[]interface{}{
		user.ID,
		user.Name,
		user.Email,
		string(user.Role),
		department,
		rollNumber,
		proctorID,
		adminLevel,
		user.IsActive,
		lastLogin,
		user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
