package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/employee"
	"github.com/nexushr/hrms-backend-go/internal/domain/report"
	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEmployees struct {
	employee.EmployeeRepository
	list []employee.Employee
}

func (s staticEmployees) List(context.Context) ([]employee.Employee, error) {
	return s.list, nil
}

type staticAttendance struct {
	attendance.AttendanceRepository
	byEmployee map[string][]attendance.Attendance
	ranges     chan attendance.DateRange
	err        error
}

func (s staticAttendance) ListByEmployee(_ context.Context, employeeID string, r attendance.DateRange) ([]attendance.Attendance, error) {
	if s.ranges != nil {
		s.ranges <- r
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.byEmployee[employeeID], nil
}

func workedDay(t *testing.T, d int, hours int, closed bool) attendance.Attendance {
	t.Helper()
	date := time.Date(2025, time.May, d, 0, 0, 0, 0, time.UTC)
	in := date.Add(9 * time.Hour)
	ss, err := attendance.Sessions{}.ClockIn(in)
	require.NoError(t, err)
	if closed {
		ss, err = ss.ClockOut(in.Add(time.Duration(hours) * time.Hour))
		require.NoError(t, err)
	}
	rec := attendance.Attendance{EmployeeID: "emp-1", Date: date, Sessions: ss, Status: attendance.StatusPresent}
	rec.Recompute(decimal.NewFromInt(8))
	return rec
}

func TestGenerateMonthlyAttendanceReport(t *testing.T) {
	emps := staticEmployees{list: []employee.Employee{
		{ID: "emp-1", FirstName: "Hana", LastName: "Park", Position: "Engineer"},
		{ID: "emp-2", FirstName: "Abel"},
	}}
	var days []attendance.Attendance
	for d := 1; d <= 17; d++ {
		days = append(days, workedDay(t, d, 10, true))
	}
	days = append(days, workedDay(t, 19, 0, false))

	ranges := make(chan attendance.DateRange, 2)
	atts := staticAttendance{byEmployee: map[string][]attendance.Attendance{"emp-1": days}, ranges: ranges}
	svc := NewReportService(emps, atts, decimal.NewFromInt(160), 2)

	// Act
	got, err := svc.GenerateMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{Month: 5, Year: 2025})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", got.PeriodStart)
	assert.Equal(t, "2025-05-31", got.PeriodEnd)
	require.Len(t, got.Employees, 2)

	hana := got.Employees[0]
	assert.Equal(t, "Hana Park", hana.EmployeeName)
	assert.Equal(t, 18, hana.Summary.DaysPresent)
	assert.True(t, hana.Summary.TotalHours.Equal(decimal.NewFromInt(170)), hana.Summary.TotalHours.String())
	assert.True(t, hana.Summary.DailyOvertime.Equal(decimal.NewFromInt(34)), hana.Summary.DailyOvertime.String())
	assert.True(t, hana.Summary.ExcessHours.Equal(decimal.NewFromInt(10)), hana.Summary.ExcessHours.String())
	assert.Equal(t, 1, hana.Summary.OpenSessions)
	require.Len(t, hana.DailyLogs, 18)
	assert.Equal(t, "Thursday", hana.DailyLogs[0].DayOfWeek)
	assert.Nil(t, hana.DailyLogs[17].ClockOut)

	abel := got.Employees[1]
	assert.Equal(t, 0, abel.Summary.DaysPresent)
	assert.True(t, abel.Summary.TotalHours.IsZero())
	assert.Empty(t, abel.DailyLogs)

	r := <-ranges
	assert.True(t, r.Inclusive)
}

func TestGenerateMonthlyAttendanceReport_Errors(t *testing.T) {
	emps := staticEmployees{list: []employee.Employee{{ID: "emp-1", FirstName: "Hana"}}}

	svc := NewReportService(emps, staticAttendance{}, decimal.NewFromInt(160), 1)
	_, err := svc.GenerateMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{Month: 0, Year: 2025})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	failing := NewReportService(emps, staticAttendance{err: errors.New("timeout")}, decimal.NewFromInt(160), 1)
	_, err = failing.GenerateMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{Month: 5, Year: 2025})
	assert.ErrorContains(t, err, "timeout")
}
