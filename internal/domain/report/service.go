package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// GenerateMonthlyAttendanceReport summarizes every employee's attendance for a
	// calendar month.
	GenerateMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (MonthlyAttendanceReport, error)
}
