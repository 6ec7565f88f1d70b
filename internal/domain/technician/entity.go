package technician

// Technician is a field worker of a tenant. UserID is the auth-user id used as the
// foreign key into attendance records.
type Technician struct {
	ID       string
	TenantID string
	UserID   string
	FullName string
	Email    *string
	IsActive bool
}
