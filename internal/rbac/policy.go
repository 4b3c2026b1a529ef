package rbac

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Roles lists every role the system knows about.
var Roles = []string{RoleEmployee, RoleManager, RoleAdmin}

// IsValidRole reports whether role is one of the closed set of roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// policyRules is the full access matrix, keyed by (role, resource, action).
// Ownership rules (owner-or-admin on cancel, the manager self-review ban)
// are enforced in the leave service, not here.
var policyRules = [][]string{
	// leave
	{RoleEmployee, "leave", "create"},
	{RoleManager, "leave", "create"},
	{RoleAdmin, "leave", "create"},

	{RoleEmployee, "leave", "read_own"},
	{RoleManager, "leave", "read_own"},
	{RoleAdmin, "leave", "read_own"},

	{RoleManager, "leave", "read_all"},
	{RoleAdmin, "leave", "read_all"},

	{RoleManager, "leave", "stats"},
	{RoleAdmin, "leave", "stats"},

	{RoleManager, "leave", "review"},
	{RoleAdmin, "leave", "review"},

	{RoleEmployee, "leave", "delete"},
	{RoleManager, "leave", "delete"},
	{RoleAdmin, "leave", "delete"},

	// user directory
	{RoleAdmin, "user", "create"},
	{RoleAdmin, "user", "list"},
	{RoleAdmin, "user", "update"},
	{RoleAdmin, "user", "delete"},

	{RoleManager, "user", "read"},
	{RoleAdmin, "user", "read"},

	{RoleManager, "user", "leaves"},
	{RoleAdmin, "user", "leaves"},
}
