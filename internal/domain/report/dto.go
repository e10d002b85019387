package report

import (
	"time"

	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyAttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyAttendanceReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Employees []MonthlyAttendanceEmployee `json:"employees"`
}

type MonthlyAttendanceEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Position     string `json:"position"`

	Summary   AttendanceSummary    `json:"summary"`
	DailyLogs []AttendanceDailyLog `json:"daily_logs"`
}

// AttendanceSummary mirrors what the payroll run will see for the month.
type AttendanceSummary struct {
	DaysPresent   int             `json:"days_present"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	DailyOvertime decimal.Decimal `json:"daily_overtime"`
	ExcessHours   decimal.Decimal `json:"excess_hours"` // over the monthly threshold
	OpenSessions  int             `json:"open_sessions"`
}

type AttendanceDailyLog struct {
	Date      string          `json:"date"`
	DayOfWeek string          `json:"day_of_week"`
	ClockIn   *time.Time      `json:"clock_in"`
	ClockOut  *time.Time      `json:"clock_out"`
	Sessions  int             `json:"sessions"`
	Hours     decimal.Decimal `json:"hours"`
	Overtime  decimal.Decimal `json:"overtime"`
	Status    string          `json:"status"`
}
