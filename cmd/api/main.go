package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/config"
	appHTTP "github.com/nexushr/hrms-backend-go/internal/handler/http"
	"github.com/nexushr/hrms-backend-go/internal/pkg/cron"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
	"github.com/nexushr/hrms-backend-go/internal/pkg/jwt"
	"github.com/nexushr/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/nexushr/hrms-backend-go/internal/service/attendance"
	leaveService "github.com/nexushr/hrms-backend-go/internal/service/leave"
	payrollService "github.com/nexushr/hrms-backend-go/internal/service/payroll"
	reportService "github.com/nexushr/hrms-backend-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.EnsureSchema {
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return err
		}
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		employeeRepo,
		cfg.Location(),
		cfg.Payroll.DailyHourThreshold,
	)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		cfg.Payroll.Rates(),
		cfg.Payroll.Workers,
	)

	reportSvc := reportService.NewReportService(
		employeeRepo,
		attendanceRepo,
		cfg.Payroll.MonthlyHourThreshold,
		cfg.Payroll.Workers,
	)

	leaveSvc := leaveService.NewLeaveService(transactor, leaveRepo, employeeRepo)

	if cfg.Jobs.StaleSessionInterval > 0 {
		scheduler := cron.NewScheduler(ctx)
		cron.NewAttendanceJobs(attendanceRepo, cfg.Location()).RegisterJobs(scheduler, cfg.Jobs.StaleSessionInterval)
		// Report sessions left open across a restart without waiting a full interval.
		scheduler.RunOnce(ctx)
		scheduler.Start()
		defer scheduler.Stop()
	}

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)

	router := appHTTP.NewRouter(cfg, logger, JWTService, payrollHandler, attendanceHandler, reportHandler, leaveHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "timezone", cfg.App.Timezone)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
