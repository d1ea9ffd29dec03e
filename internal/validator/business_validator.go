package validator

import (
	"strings"

	"github.com/SAP-F-2025/identity-service/internal/models"
)

// BusinessValidator enforces registration and login input rules. Checks
// run in a fixed order and the first failure wins, matching the
// synchronous field-by-field validation the API promises.
type BusinessValidator struct{}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// ValidateRegister runs the full registration gate, minus the
// uniqueness check which belongs to the storage layer.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) *ValidationError {
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name", "Name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return NewValidationError("email", "Email is required")
	}
	if len(req.Password) < 6 {
		return NewValidationError("password", "Password must be at least 6 characters")
	}
	if !models.ValidRole(req.Role) {
		return NewValidationError("role", "Invalid role")
	}

	switch req.Role {
	case models.RoleStudent:
		return bv.validateStudentFields(req)
	case models.RoleProctor:
		return bv.validateProctorFields(req)
	case models.RoleAdmin:
		return bv.validateAdminFields(req)
	}
	return nil
}

// ValidateLogin only checks presence; credential verification happens
// in the service.
func (bv *BusinessValidator) ValidateLogin(req *LoginRequest) *ValidationError {
	if strings.TrimSpace(req.Email) == "" {
		return NewValidationError("email", "Email is required")
	}
	if req.Password == "" {
		return NewValidationError("password", "Password is required")
	}
	return nil
}

func (bv *BusinessValidator) validateStudentFields(req *RegisterRequest) *ValidationError {
	if strings.TrimSpace(req.RollNumber) == "" {
		return NewValidationError("rollNumber", "Roll number is required")
	}
	if !models.ValidDepartment(req.Department) {
		return NewValidationError("department", "Valid department is required")
	}
	if req.Semester < 1 || req.Semester > 8 {
		return NewValidationError("semester", "Semester must be between 1 and 8")
	}
	if strings.TrimSpace(req.Batch) == "" {
		return NewValidationError("batch", "Batch is required")
	}
	return nil
}

func (bv *BusinessValidator) validateProctorFields(req *RegisterRequest) *ValidationError {
	if strings.TrimSpace(req.ProctorID) == "" {
		return NewValidationError("proctorId", "Proctor ID is required")
	}
	if !models.ValidDepartment(req.Department) {
		return NewValidationError("department", "Valid department is required")
	}
	return nil
}

func (bv *BusinessValidator) validateAdminFields(req *RegisterRequest) *ValidationError {
	if !models.ValidDepartment(req.Department) {
		return NewValidationError("department", "Valid department is required")
	}
	if req.AdminLevel != "" && !models.ValidAdminLevel(req.AdminLevel) {
		return NewValidationError("adminLevel", "Invalid admin level")
	}
	return nil
}
