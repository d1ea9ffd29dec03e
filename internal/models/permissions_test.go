package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDerivePermissions(t *testing.T) {
	tests := []struct {
		name  string
		role  UserRole
		level AdminLevel
		want  Permissions
	}{
		{
			name:  "super admin gets everything",
			role:  RoleAdmin,
			level: AdminSuper,
			want: Permissions{
				ManageCalendar: true,
				ManageUsers:    true,
				ViewAnalytics:  true,
				ManageProctors: true,
				ManageAdmins:   true,
				ExportReports:  true,
			},
		},
		{
			name:  "department admin cannot manage admins",
			role:  RoleAdmin,
			level: AdminDepartment,
			want: Permissions{
				ManageCalendar: true,
				ManageUsers:    true,
				ViewAnalytics:  true,
				ManageProctors: true,
				ExportReports:  true,
			},
		},
		{
			name:  "limited admin",
			role:  RoleAdmin,
			level: AdminLimited,
			want: Permissions{
				ManageCalendar: true,
				ViewAnalytics:  true,
			},
		},
		{
			name:  "unknown level falls back to limited",
			role:  RoleAdmin,
			level: AdminLevel("owner"),
			want: Permissions{
				ManageCalendar: true,
				ViewAnalytics:  true,
			},
		},
		{
			name:  "student gets nothing regardless of level",
			role:  RoleStudent,
			level: AdminSuper,
			want:  Permissions{},
		},
		{
			name:  "proctor gets nothing",
			role:  RoleProctor,
			level: AdminDepartment,
			want:  Permissions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePermissions(tt.role, tt.level)
			if got != tt.want {
				t.Errorf("DerivePermissions(%s, %s) = %+v, want %+v", tt.role, tt.level, got, tt.want)
			}
		})
	}
}

func TestDerivePermissionsIsDeterministic(t *testing.T) {
	first := DerivePermissions(RoleAdmin, AdminDepartment)
	second := DerivePermissions(RoleAdmin, AdminDepartment)
	if first != second {
		t.Errorf("repeated derivation differs: %+v vs %+v", first, second)
	}
}

func TestPermissionsHas(t *testing.T) {
	perms := DerivePermissions(RoleAdmin, AdminSuper)

	for _, capability := range []string{
		CapManageCalendar, CapManageUsers, CapViewAnalytics,
		CapManageProctors, CapManageAdmins, CapExportReports,
	} {
		if !perms.Has(capability) {
			t.Errorf("super admin should have %s", capability)
		}
	}

	if perms.Has("deleteEverything") {
		t.Error("unknown capability should resolve to false")
	}

	limited := DerivePermissions(RoleAdmin, AdminLimited)
	if limited.Has(CapManageUsers) {
		t.Error("limited admin should not have manageUsers")
	}
	if !limited.Has(CapViewAnalytics) {
		t.Error("limited admin should have viewAnalytics")
	}
}

func TestUserHasPermission(t *testing.T) {
	student := &User{Role: RoleStudent}
	if student.HasPermission(CapManageCalendar) {
		t.Error("student must not hold any capability")
	}

	admin := &User{Role: RoleAdmin}
	if admin.HasPermission(CapManageCalendar) {
		t.Error("admin without profile must not hold any capability")
	}

	admin.Admin = &AdminProfile{
		AdminLevel:  AdminSuper,
		Permissions: datatypes.NewJSONType(DerivePermissions(RoleAdmin, AdminSuper)),
	}
	if !admin.HasPermission(CapManageAdmins) {
		t.Error("super admin should hold manageAdmins")
	}
}
