package report

import (
	"context"
	"fmt"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/employee"
	"github.com/nexushr/hrms-backend-go/internal/domain/report"
	payrollService "github.com/nexushr/hrms-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	monthlyThreshold decimal.Decimal
	workers          int
	now              func() time.Time
}

func NewReportService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	monthlyThreshold decimal.Decimal,
	workers int,
) report.ReportService {
	if workers < 1 {
		workers = 1
	}
	return &ReportServiceImpl{
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		monthlyThreshold: monthlyThreshold,
		workers:          workers,
		now:              time.Now,
	}
}

// GenerateMonthlyAttendanceReport generates the monthly attendance report
func (s *ReportServiceImpl) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	period := attendance.MonthInclusive(req.Year, time.Month(req.Month))

	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return report.MonthlyAttendanceReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	rows := make([]report.MonthlyAttendanceEmployee, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, emp := range employees {
		g.Go(func() error {
			records, err := s.attendanceRepo.ListByEmployee(gctx, emp.ID, period)
			if err != nil {
				return fmt.Errorf("failed to get attendance for employee %s: %w", emp.ID, err)
			}
			rows[i] = s.employeeRow(emp, records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	return report.MonthlyAttendanceReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: period.Start.Format("2006-01-02"),
		PeriodEnd:   period.End.Format("2006-01-02"),
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Employees:   rows,
	}, nil
}

func (s *ReportServiceImpl) employeeRow(emp employee.Employee, records []attendance.Attendance) report.MonthlyAttendanceEmployee {
	summary := payrollService.Summarize(records)

	row := report.MonthlyAttendanceEmployee{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName(),
		Position:     emp.Position,
		Summary: report.AttendanceSummary{
			DaysPresent:   summary.DaysPresent,
			TotalHours:    summary.TotalHours.Round(2),
			DailyOvertime: summary.SumDailyOvertime.Round(2),
			ExcessHours:   summary.ExcessOver(s.monthlyThreshold).Round(2),
		},
		DailyLogs: make([]report.AttendanceDailyLog, 0, len(records)),
	}

	for _, r := range records {
		entry := report.AttendanceDailyLog{
			Date:      r.Date.Format("2006-01-02"),
			DayOfWeek: r.Date.Weekday().String(),
			Sessions:  len(r.Sessions),
			Hours:     r.TotalHours.Round(2),
			Overtime:  r.Overtime.Round(2),
			Status:    string(r.Status),
		}
		if len(r.Sessions) > 0 {
			first := r.Sessions[0].ClockIn
			entry.ClockIn = &first
			last, _ := r.Sessions.Last()
			entry.ClockOut = last.ClockOut
		}
		if r.Sessions.ClockedIn() {
			row.Summary.OpenSessions++
		}
		row.DailyLogs = append(row.DailyLogs, entry)
	}
	return row
}
