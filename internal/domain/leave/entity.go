package leave

import (
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusDenied   RequestStatus = "DENIED"
)

// Decision reports whether s is a status a reviewer may set.
func (s RequestStatus) Decision() bool {
	return s == StatusApproved || s == StatusDenied
}

// Active requests block overlapping submissions.
func (s RequestStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string

	// Inclusive calendar dates, stored without a time of day.
	StartDate time.Time
	EndDate   time.Time
	Reason    *string

	Status    RequestStatus
	DecidedBy *string // user id of the reviewer
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses and the manager check)
	EmployeeName *string
	ManagerID    *string
}

func (l LeaveRequest) Range() attendance.DateRange {
	return attendance.DateRange{Start: l.StartDate, End: l.EndDate, Inclusive: true}
}

// Days counts calendar days, both ends included.
func (l LeaveRequest) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}
