package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/nexushr/hrms-backend-go/internal/config"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/handler/http/middleware"
	"github.com/nexushr/hrms-backend-go/internal/handler/http/response"
	"github.com/nexushr/hrms-backend-go/internal/pkg/jwt"
)

// NewLogger builds the process logger in the ECS shape httplog emits.
func NewLogger(app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-payroll"),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, payrollHandler PayrollHandler, attendanceHandler AttendanceHandler, reportHandler ReportHandler, leaveHandler LeaveHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  parseLevel(cfg.App.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	payrollWrites := middleware.RateLimit(cfg.RateLimit.PayrollPerMinute, cfg.RateLimit.PayrollBurst)

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/payrolls", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollGenerate))
					r.With(payrollWrites).Post("/generate", payrollHandler.Generate)
					r.Post("/preview", payrollHandler.Preview)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", payrollHandler.List)
					r.Get("/{id}", payrollHandler.Get)
					r.Get("/{id}/export", payrollHandler.Export)
				})

				r.With(
					middleware.RequirePermission(user.PermissionPayrollMarkPaid),
					payrollWrites,
				).Patch("/{id}/pay", payrollHandler.MarkPaid)
			})

			// Self-or-HR access is enforced by the payroll service.
			r.Route("/payslips", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayslipViewOwn))
				r.Get("/me", payrollHandler.MyPayslips)
				r.Get("/{employeeId}", payrollHandler.EmployeePayslips)
				r.Get("/{employeeId}/{month}/{year}", payrollHandler.EmployeePayslip)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceClock))
					r.Post("/", attendanceHandler.Record)
					r.Get("/status", attendanceHandler.Status)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/", attendanceHandler.List)
					r.Get("/today", attendanceHandler.Today)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
					Patch("/{id}", attendanceHandler.UpdateStatus)
			})

			// Senior managers are limited to their direct reports by the leave service.
			r.Route("/leave-requests", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveRequest))
					r.Post("/", leaveHandler.CreateRequest)
					r.Get("/me", leaveHandler.GetMyRequests)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Get("/team", leaveHandler.ListTeamRequests)
					r.Patch("/{id}", leaveHandler.DecideRequest)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
				r.Get("/attendance", reportHandler.GetMonthlyAttendanceReport)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
