package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create inserts the first record of a day. A second record for the same
	// (employee, date) fails with ErrAttendanceAlreadyExists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate locks the row when called inside a transaction.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// UpdateSessions persists sessions and the derived totals.
	UpdateSessions(ctx context.Context, attendance Attendance) error

	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListByEmployee returns an employee's records whose date falls in r, oldest first.
	ListByEmployee(ctx context.Context, employeeID string, r DateRange) ([]Attendance, error)

	// ListByDate returns every record of one day with employee names joined.
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListOpenBefore returns records dated before the given day whose last session
	// is still open.
	ListOpenBefore(ctx context.Context, before time.Time) ([]Attendance, error)
}
