package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/employee"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	loc            *time.Location
	dailyThreshold decimal.Decimal
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
	dailyThreshold decimal.Decimal,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		loc:                  loc,
		dailyThreshold:       dailyThreshold,
		now:                  time.Now,
	}
}

// callerEmployeeID resolves the employee record behind the authenticated user.
func (a *AttendanceServiceImpl) callerEmployeeID(ctx context.Context) (string, error) {
	caller, err := user.IdentityFromContext(ctx)
	if err != nil {
		return "", err
	}
	if caller.EmployeeID != nil && *caller.EmployeeID != "" {
		return *caller.EmployeeID, nil
	}

	emp, err := a.EmployeeRepository.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return "", user.ErrNoEmployeeProfile
		}
		return "", err
	}
	return emp.ID, nil
}

// Record implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := a.callerEmployeeID(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now().UTC()
	today := attendance.Day(now, a.loc)

	var saved attendance.Attendance
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			if req.Action == attendance.ActionClockOut {
				return attendance.ErrNoClockInToday
			}
			sessions, err := attendance.Sessions{}.ClockIn(now)
			if err != nil {
				return err
			}
			rec = attendance.Attendance{
				EmployeeID: employeeID,
				Date:       today,
				Sessions:   sessions,
				Status:     attendance.StatusPresent,
			}
			rec.Recompute(a.dailyThreshold)

			saved, err = a.AttendanceRepository.Create(ctx, rec)
			if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
				// A concurrent clock-in for the same day got there first.
				return attendance.ErrAlreadyClockedIn
			}
			return err
		}
		if err != nil {
			return err
		}

		var sessions attendance.Sessions
		if req.Action == attendance.ActionClockIn {
			sessions, err = rec.Sessions.ClockIn(now)
		} else {
			sessions, err = rec.Sessions.ClockOut(now)
		}
		if err != nil {
			return err
		}
		rec.Sessions = sessions
		rec.Recompute(a.dailyThreshold)

		if err := a.AttendanceRepository.UpdateSessions(ctx, rec); err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance recorded",
		"employee_id", employeeID,
		"action", req.Action,
		"date", today.Format("2006-01-02"),
		"total_hours", saved.TotalHours.String(),
	)

	return attendance.ToResponse(saved), nil
}

// Status implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Status(ctx context.Context) (attendance.StatusResponse, error) {
	employeeID, err := a.callerEmployeeID(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	today := attendance.Day(a.now(), a.loc)
	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.StatusResponse{ClockedIn: false, TotalHours: decimal.Zero}, nil
		}
		return attendance.StatusResponse{}, err
	}

	resp := attendance.StatusResponse{
		ClockedIn:  rec.Sessions.ClockedIn(),
		TotalHours: attendance.Hours(rec.Sessions.Worked()).Round(2),
	}
	if last, ok := rec.Sessions.Last(); ok {
		clockIn := last.ClockIn
		resp.LastClockIn = &clockIn
	}
	return resp, nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	records, err := a.AttendanceRepository.ListByDate(ctx, attendance.Day(a.now(), a.loc))
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, attendance.ToResponse(r))
	}
	return resp, nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		data = append(data, attendance.ToResponse(r))
	}
	return attendance.ListAttendanceResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateStatus(ctx context.Context, req attendance.UpdateStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	status := attendance.Status(req.Status)
	if err := a.AttendanceRepository.UpdateStatus(ctx, req.ID, status); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if caller, err := user.IdentityFromContext(ctx); err == nil {
		slog.Info("attendance status overridden", "attendance_id", req.ID, "status", status, "by", caller.UserID)
	}

	return attendance.ToResponse(rec), nil
}
