package leave

import (
	"time"

	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
)

const maxReasonLength = 500

type CreateLeaveRequestRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	} else if d, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	} else {
		start = d
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	} else if d, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	} else {
		end = d
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	if r.Reason != nil && len(*r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must be at most 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed range. Call after Validate.
func (r *CreateLeaveRequestRequest) Dates() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type DecideLeaveRequestRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *DecideLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if !RequestStatus(r.Status).Decision() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be APPROVED or DENIED"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveRequestResponse struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employee_id"`
	EmployeeName *string       `json:"employee_name,omitempty"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Days         int           `json:"days"`
	Reason       *string       `json:"reason,omitempty"`
	Status       RequestStatus `json:"status"`
	DecidedBy    *string       `json:"decided_by,omitempty"`
	DecidedAt    *time.Time    `json:"decided_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

func ToResponse(l LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		Days:         l.Days(),
		Reason:       l.Reason,
		Status:       l.Status,
		DecidedBy:    l.DecidedBy,
		DecidedAt:    l.DecidedAt,
		CreatedAt:    l.CreatedAt,
	}
}
