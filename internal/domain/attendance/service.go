package attendance

import "context"

// AttendanceService covers the caller's own clock actions and HR's view of the records.
type AttendanceService interface {
	// Record applies a clockIn or clockOut action for the authenticated employee.
	Record(ctx context.Context, req RecordRequest) (AttendanceResponse, error)

	// Status reports whether the caller is clocked in and today's worked hours.
	Status(ctx context.Context) (StatusResponse, error)

	Today(ctx context.Context) ([]AttendanceResponse, error)

	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// UpdateStatus manually overrides a record's status (HR/admin).
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (AttendanceResponse, error)
}
