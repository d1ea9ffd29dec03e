package models

// Capability names exposed to route handlers.
const (
	CapManageCalendar = "manageCalendar"
	CapManageUsers    = "manageUsers"
	CapViewAnalytics  = "viewAnalytics"
	CapManageProctors = "manageProctors"
	CapManageAdmins   = "manageAdmins"
	CapExportReports  = "exportReports"
)

// Permissions is the capability set for an admin account.
type Permissions struct {
	ManageCalendar bool `json:"manageCalendar"`
	ManageUsers    bool `json:"manageUsers"`
	ViewAnalytics  bool `json:"viewAnalytics"`
	ManageProctors bool `json:"manageProctors"`
	ManageAdmins   bool `json:"manageAdmins"`
	ExportReports  bool `json:"exportReports"`
}

// DerivePermissions maps (role, adminLevel) to a capability set. Pure
// and total: non-admin roles always get the zero set, unknown admin
// levels fall back to limited.
func DerivePermissions(role UserRole, level AdminLevel) Permissions {
	if role != RoleAdmin {
		return Permissions{}
	}

	switch level {
	case AdminSuper:
		return Permissions{
			ManageCalendar: true,
			ManageUsers:    true,
			ViewAnalytics:  true,
			ManageProctors: true,
			ManageAdmins:   true,
			ExportReports:  true,
		}
	case AdminDepartment:
		return Permissions{
			ManageCalendar: true,
			ManageUsers:    true,
			ViewAnalytics:  true,
			ManageProctors: true,
			ExportReports:  true,
		}
	default: // limited
		return Permissions{
			ManageCalendar: true,
			ViewAnalytics:  true,
		}
	}
}

// Has resolves a capability by its wire name.
func (p Permissions) Has(capability string) bool {
	switch capability {
	case CapManageCalendar:
		return p.ManageCalendar
	case CapManageUsers:
		return p.ManageUsers
	case CapViewAnalytics:
		return p.ViewAnalytics
	case CapManageProctors:
		return p.ManageProctors
	case CapManageAdmins:
		return p.ManageAdmins
	case CapExportReports:
		return p.ExportReports
	}
	return false
}
