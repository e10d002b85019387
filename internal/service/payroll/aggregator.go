package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Aggregator reduces attendance records to per-period summaries.
type Aggregator struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewAggregator(attendanceRepo attendance.AttendanceRepository) *Aggregator {
	return &Aggregator{attendanceRepo: attendanceRepo}
}

// Summarize loads the employee's records in r and reduces them.
func (a *Aggregator) Summarize(ctx context.Context, employeeID string, r attendance.DateRange) (payroll.AttendanceSummary, error) {
	records, err := a.attendanceRepo.ListByEmployee(ctx, employeeID, r)
	if err != nil {
		return payroll.AttendanceSummary{}, fmt.Errorf("load attendance for employee %s: %w", employeeID, err)
	}
	return Summarize(records), nil
}

// Summarize counts each record as a day present, sums closed session time and
// the per-record overtime. No records yields the zero summary.
func Summarize(records []attendance.Attendance) payroll.AttendanceSummary {
	var worked time.Duration
	overtime := decimal.Zero
	for _, r := range records {
		worked += r.Sessions.Worked()
		overtime = overtime.Add(r.Overtime)
	}
	return payroll.AttendanceSummary{
		DaysPresent:      len(records),
		TotalHours:       attendance.Hours(worked),
		SumDailyOvertime: overtime,
	}
}
