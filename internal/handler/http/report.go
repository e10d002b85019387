package http

import (
	"net/http"
	"strconv"

	"github.com/nexushr/hrms-backend-go/internal/domain/report"
	"github.com/nexushr/hrms-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Monthly Attendance Report
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.MonthlyAttendanceReportRequest{
		Month: month,
		Year:  year,
	}

	result, err := h.reportService.GenerateMonthlyAttendanceReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
