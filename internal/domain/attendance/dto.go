package attendance

import (
	"time"

	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	ActionClockIn  = "clockIn"
	ActionClockOut = "clockOut"
)

type RecordRequest struct {
	Action string `json:"action"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Action, []string{ActionClockIn, ActionClockOut}) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be clockIn or clockOut",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of PRESENT, ABSENT, HALF_DAY, ON_LEAVE",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Status     *string `json:"status,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	var start, end time.Time
	if f.StartDate != nil {
		d, ok := validator.IsValidDate(*f.StartDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
		start = d
	}
	if f.EndDate != nil {
		d, ok := validator.IsValidDate(*f.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
		end = d
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown status"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f AttendanceFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type SessionResponse struct {
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out,omitempty"`
}

type AttendanceResponse struct {
	ID               string            `json:"id"`
	EmployeeID       string            `json:"employee_id"`
	EmployeeName     *string           `json:"employee_name,omitempty"`
	EmployeePosition *string           `json:"employee_position,omitempty"`
	Date             string            `json:"date"`
	Sessions         []SessionResponse `json:"sessions"`
	ClockedIn        bool              `json:"clocked_in"`
	TotalHours       decimal.Decimal   `json:"total_hours"`
	Overtime         decimal.Decimal   `json:"overtime"`
	Status           Status            `json:"status"`
}

type StatusResponse struct {
	ClockedIn   bool            `json:"clocked_in"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	LastClockIn *time.Time      `json:"last_clock_in"`
}

type ListAttendanceResponse struct {
	Data       []AttendanceResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

// ToResponse maps a record for the API.
func ToResponse(a Attendance) AttendanceResponse {
	sessions := make([]SessionResponse, 0, len(a.Sessions))
	for _, s := range a.Sessions {
		sessions = append(sessions, SessionResponse{ClockIn: s.ClockIn, ClockOut: s.ClockOut})
	}
	return AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		EmployeePosition: a.EmployeePosition,
		Date:             a.Date.Format("2006-01-02"),
		Sessions:         sessions,
		ClockedIn:        a.Sessions.ClockedIn(),
		TotalHours:       a.TotalHours.Round(2),
		Overtime:         a.Overtime.Round(2),
		Status:           a.Status,
	}
}
