package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "session-booking.super-admin.full-permit"
	PermManagerFull    = "session-booking.manager.full-permit"
	PermStaffFull      = "session-booking.staff.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	BookingManagementPermissions = []string{
		PermSuperAdminFull,
		PermManagerFull,
		PermStaffFull,
	}

	SettingsManagementPermissions = []string{
		PermSuperAdminFull,
		PermManagerFull,
	}
)
