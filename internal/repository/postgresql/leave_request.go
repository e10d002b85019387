package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nexushr/hrms-backend-go/internal/domain/leave"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `lr.id, lr.employee_id, lr.start_date, lr.end_date, lr.reason, lr.status,
	lr.decided_by, lr.decided_at, lr.created_at, lr.updated_at,
	e.first_name || ' ' || e.last_name, e.manager_id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.StartDate, &lr.EndDate, &lr.Reason, &lr.Status,
		&lr.DecidedBy, &lr.DecidedAt, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.ManagerID,
	)
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("failed to generate leave request id: %w", err)
		}
		request.ID = id.String()
	}
	if request.Status == "" {
		request.Status = leave.StatusPending
	}

	query := `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.StartDate, request.EndDate, request.Reason, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1
		FOR UPDATE OF lr
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return lr, nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.employee_id = $1
		ORDER BY lr.created_at DESC, lr.id DESC
	`
	return r.list(ctx, query, employeeID)
}

// ListPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPending(ctx context.Context, managerID *string) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.status = 'PENDING' AND ($1::uuid IS NULL OR e.manager_id = $1::uuid)
		ORDER BY lr.created_at, lr.id
	`
	return r.list(ctx, query, managerID)
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, status leave.RequestStatus, decidedBy string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE leave_requests
			SET status = $2, decided_by = $3, decided_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'PENDING'
			RETURNING *
		)
		SELECT ` + leaveRequestColumns + `
		FROM updated lr
		JOIN employees e ON e.id = lr.employee_id
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, status, decidedBy))
	if err == nil {
		return lr, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to decide leave request %s: %w", id, err)
	}

	// Nothing updated: the request is gone or no longer pending.
	var current leave.RequestStatus
	err = q.QueryRow(ctx, `SELECT status FROM leave_requests WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to read leave request %s: %w", id, err)
	}
	return leave.LeaveRequest{}, fmt.Errorf("%w: request is %s", leave.ErrLeaveRequestAlreadyProcessed, current)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}
