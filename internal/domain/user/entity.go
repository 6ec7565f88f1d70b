package user

type Role string

const (
	RoleOwner      Role = "owner"      // Tenant owner - full access
	RoleAdmin      Role = "admin"      // Back-office administrator
	RoleDispatcher Role = "dispatcher" // Schedules jobs, watches the roster
	RoleTechnician Role = "technician" // Field worker, sees own attendance only
)

// Identity is what the auth collaborator vouches for on each request.
type Identity struct {
	UserID   string
	TenantID string
	Role     Role
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleDispatcher, RoleTechnician:
		return true
	}
	return false
}

// CanViewTenant checks if the role may see other technicians' attendance
func (i Identity) CanViewTenant() bool {
	return HasPermission(i.Role, PermissionAttendanceViewAll)
}
