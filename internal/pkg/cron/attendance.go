package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
)

// AttendanceJobs reports attendance that needs HR attention. It never modifies records.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, loc *time.Location) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{attendanceRepo: attendanceRepo, loc: loc, now: time.Now}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("report_stale_sessions", interval, func(ctx context.Context) error {
		_, err := j.ReportStaleSessions(ctx)
		return err
	})
}

// ReportStaleSessions logs every record from before today whose last session was
// never closed and returns how many it found.
func (j *AttendanceJobs) ReportStaleSessions(ctx context.Context) (int, error) {
	today := attendance.Day(j.now(), j.loc)

	stale, err := j.attendanceRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list open sessions: %w", err)
	}

	for _, a := range stale {
		name := a.EmployeeID
		if a.EmployeeName != nil {
			name = *a.EmployeeName
		}
		last, _ := a.Sessions.Last()
		slog.Warn("attendance left clocked in",
			"attendance_id", a.ID,
			"employee_id", a.EmployeeID,
			"employee", name,
			"date", a.Date.Format("2006-01-02"),
			"clock_in", last.ClockIn,
		)
	}
	if len(stale) > 0 {
		slog.Info("stale attendance sessions found", "count", len(stale), "before", today.Format("2006-01-02"))
	}
	return len(stale), nil
}
