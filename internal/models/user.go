package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleProctor UserRole = "proctor"
	RoleAdmin   UserRole = "admin"
)

// ValidRole reports whether the role is one the platform issues.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleStudent, RoleProctor, RoleAdmin:
		return true
	}
	return false
}

type Department string

const (
	DeptCSE   Department = "CSE"
	DeptECE   Department = "ECE"
	DeptEEE   Department = "EEE"
	DeptMECH  Department = "MECH"
	DeptCIVIL Department = "CIVIL"
	DeptIT    Department = "IT"
	DeptOther Department = "OTHER"
)

func ValidDepartment(dept Department) bool {
	switch dept {
	case DeptCSE, DeptECE, DeptEEE, DeptMECH, DeptCIVIL, DeptIT, DeptOther:
		return true
	}
	return false
}

type AdminLevel string

const (
	AdminSuper      AdminLevel = "super"
	AdminDepartment AdminLevel = "department"
	AdminLimited    AdminLevel = "limited"
)

func ValidAdminLevel(level AdminLevel) bool {
	switch level {
	case AdminSuper, AdminDepartment, AdminLimited:
		return true
	}
	return false
}

// User is one credential record. Role is fixed at creation; exactly one
// of the role profiles is non-nil, matching Role.
type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:100"`
	Role         UserRole `json:"role" gorm:"not null;size:20"`

	Student *StudentProfile `json:"student,omitempty" gorm:"embedded;embeddedPrefix:student_"`
	Proctor *ProctorProfile `json:"proctor,omitempty" gorm:"embedded;embeddedPrefix:proctor_"`
	Admin   *AdminProfile   `json:"admin,omitempty" gorm:"embedded;embeddedPrefix:admin_"`

	IsActive  bool       `json:"is_active" gorm:"not null;default:true"`
	LastLogin *time.Time `json:"last_login"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// StudentProfile carries the student-only fields. RollNumber is stored
// normalized (trimmed, uppercase) and sparsely unique: the index only
// covers rows where the column is set.
type StudentProfile struct {
	RollNumber string     `json:"roll_number" gorm:"uniqueIndex;size:50"`
	Department Department `json:"department" gorm:"size:20"`
	Semester   int        `json:"semester"`
	Batch      string     `json:"batch" gorm:"size:20"`
}

type ProctorProfile struct {
	ProctorID  string     `json:"proctor_id" gorm:"uniqueIndex;size:50"`
	Department Department `json:"department" gorm:"size:20"`

	// Ids of assigned student records. One-directional: student records
	// carry no back-reference.
	AssignedStudents datatypes.JSONSlice[string] `json:"assigned_students"`
}

type AdminProfile struct {
	Department Department `json:"department" gorm:"size:20"`
	AdminLevel AdminLevel `json:"admin_level" gorm:"size:20;default:limited"`

	// Derived from AdminLevel via DerivePermissions, never set by
	// clients. Recomputed only when AdminLevel changes.
	Permissions datatypes.JSONType[Permissions] `json:"permissions"`
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode normalizes institutional identifiers (roll numbers,
// proctor ids).
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HasPermission reports whether the user holds the named capability.
// Always false for non-admin roles.
func (u *User) HasPermission(capability string) bool {
	if u.Role != RoleAdmin || u.Admin == nil {
		return false
	}
	return u.Admin.Permissions.Data().Has(capability)
}
