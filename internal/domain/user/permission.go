package user

type Permission string

const (
	// Attendance
	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Payroll
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollMarkPaid Permission = "payroll.mark_paid"
	PermissionPayrollView     Permission = "payroll.view"

	// Payslips
	PermissionPayslipViewOwn Permission = "payslip.view_own"

	// Leave
	PermissionLeaveRequest Permission = "leave.request"
	PermissionLeaveApprove Permission = "leave.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceClock,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrollGenerate,
		PermissionPayrollMarkPaid,
		PermissionPayrollView,
		PermissionPayslipViewOwn,
		PermissionLeaveRequest,
		PermissionLeaveApprove,
	},
	RoleHRRecruiter: {
		PermissionAttendanceClock,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrollGenerate,
		PermissionPayrollMarkPaid,
		PermissionPayrollView,
		PermissionPayslipViewOwn,
		PermissionLeaveRequest,
	},
	RoleSeniorManager: {
		PermissionAttendanceClock,
		PermissionPayrollView,
		PermissionPayslipViewOwn,
		PermissionLeaveRequest,
		PermissionLeaveApprove,
	},
	RoleEmployee: {
		PermissionAttendanceClock,
		PermissionPayslipViewOwn,
		PermissionLeaveRequest,
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
