package user

import "fmt"

type Role string

const (
	RoleAdmin         Role = "ADMIN"          // Full access, including payroll payment
	RoleHRRecruiter   Role = "HR_RECRUITER"   // Runs payroll and manages attendance
	RoleSeniorManager Role = "SENIOR_MANAGER" // Read access to payroll, decides team leave
	RoleEmployee      Role = "EMPLOYEE"       // Self service only
)

var roles = []Role{RoleAdmin, RoleHRRecruiter, RoleSeniorManager, RoleEmployee}

// ParseRole converts a claim value into a known role.
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Identity is the verified caller as carried by the access token.
type Identity struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

// Can reports whether the caller's role grants permission.
func (i Identity) Can(permission Permission) bool {
	return HasPermission(i.Role, permission)
}

// IsEmployee reports whether the caller is linked to the given employee record.
func (i Identity) IsEmployee(employeeID string) bool {
	return i.EmployeeID != nil && *i.EmployeeID == employeeID
}
