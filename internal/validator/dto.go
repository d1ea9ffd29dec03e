package validator

import "github.com/SAP-F-2025/identity-service/internal/models"

// RegisterRequest is the registration payload. Role-specific fields are
// flat on the wire; the business validator enforces which ones apply.
type RegisterRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`

	// Student fields
	RollNumber string `json:"rollNumber,omitempty"`
	Semester   int    `json:"semester,omitempty"`
	Batch      string `json:"batch,omitempty"`

	// Proctor fields
	ProctorID string `json:"proctorId,omitempty"`

	// Shared by student, proctor and admin
	Department models.Department `json:"department,omitempty"`

	// Admin fields
	AdminLevel models.AdminLevel `json:"adminLevel,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAdminLevelRequest changes an admin's level; permissions are
// re-derived as part of the same mutation.
type UpdateAdminLevelRequest struct {
	AdminLevel models.AdminLevel `json:"adminLevel" validate:"required"`
}

type UpdateActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type AssignStudentsRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,dive,required"`
}
