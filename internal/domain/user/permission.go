package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Roster
	PermissionRosterView   Permission = "roster.view"
	PermissionRosterExport Permission = "roster.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionRosterView,
		PermissionRosterExport,
	},
	RoleAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionRosterView,
		PermissionRosterExport,
	},
	RoleDispatcher: {
		// Dispatchers read the roster but do not export it
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionRosterView,
	},
	RoleTechnician: {
		PermissionAttendanceViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
