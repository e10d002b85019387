package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/employee"
	"github.com/nexushr/hrms-backend-go/internal/domain/leave"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/pkg/export"
	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrNoEmployeeProfile):
		NotFound(w, "No employee profile linked to this account")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrNoSalariedEmployees):
		NotFound(w, "No employees with a salary to pay")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrInvalidMode):
		BadRequest(w, "Mode must be HOUR or DAY", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		BadRequest(w, "Already clocked in", nil)
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "Not clocked in", nil)
	case errors.Is(err, attendance.ErrNoClockInToday):
		BadRequest(w, "No clock-in recorded today", nil)
	case errors.Is(err, attendance.ErrInvalidSession):
		BadRequest(w, "Invalid attendance session", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrNotTeamManager):
		Forbidden(w, "You are not authorized to manage this request")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())

	case errors.Is(err, export.ErrUnsupportedFormat):
		BadRequest(w, "Format must be csv or xlsx", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
