package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexushr/hrms-backend-go/internal/domain/employee"
	"github.com/nexushr/hrms-backend-go/internal/domain/leave"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	tx           database.Transactor
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
}

func NewLeaveService(
	tx database.Transactor,
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:           tx,
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
	}
}

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	caller, err := user.IdentityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	employeeID, err := s.ownEmployeeID(ctx, caller)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, end := req.Dates()
	request := leave.LeaveRequest{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
	}

	var created leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.leaveRepo.ListByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.Status.Active() && e.Range().Overlaps(request.Range()) {
				return fmt.Errorf("%w: %s (%s to %s)", leave.ErrOverlappingLeave,
					e.ID, e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"))
			}
		}

		created, err = s.leaveRepo.Create(ctx, request)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request submitted", "leave_request_id", created.ID, "employee_id", employeeID, "days", created.Days())
	return leave.ToResponse(created), nil
}

// MyRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) MyRequests(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	caller, err := user.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}
	employeeID, err := s.ownEmployeeID(ctx, caller)
	if err != nil {
		return nil, err
	}

	requests, err := s.leaveRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// TeamRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) TeamRequests(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	caller, err := user.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.Can(user.PermissionLeaveApprove) {
		return nil, user.ErrInsufficientPermissions
	}

	var managerID *string
	if teamScoped(caller) {
		own, err := s.ownEmployeeID(ctx, caller)
		if errors.Is(err, user.ErrNoEmployeeProfile) {
			return []leave.LeaveRequestResponse{}, nil
		}
		if err != nil {
			return nil, err
		}
		managerID = &own
	}

	requests, err := s.leaveRepo.ListPending(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	caller, err := user.IdentityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !caller.Can(user.PermissionLeaveApprove) {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
	}

	status := leave.RequestStatus(req.Status)
	var decided leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.leaveRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := s.authorizeDecision(ctx, caller, request); err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return fmt.Errorf("%w: request is %s", leave.ErrLeaveRequestAlreadyProcessed, request.Status)
		}

		decided, err = s.leaveRepo.Decide(ctx, req.ID, status, caller.UserID)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request decided", "leave_request_id", decided.ID, "status", status, "by", caller.UserID)
	return leave.ToResponse(decided), nil
}

// authorizeDecision limits senior managers to requests of their direct reports.
func (s *LeaveServiceImpl) authorizeDecision(ctx context.Context, caller user.Identity, request leave.LeaveRequest) error {
	if !teamScoped(caller) {
		return nil
	}
	if request.ManagerID == nil {
		return leave.ErrNotTeamManager
	}
	if caller.IsEmployee(*request.ManagerID) {
		return nil
	}

	own, err := s.ownEmployeeID(ctx, caller)
	if err != nil {
		if errors.Is(err, user.ErrNoEmployeeProfile) {
			return leave.ErrNotTeamManager
		}
		return err
	}
	if own != *request.ManagerID {
		return leave.ErrNotTeamManager
	}
	return nil
}

// teamScoped reports whether the caller only decides for their own reports.
func teamScoped(caller user.Identity) bool {
	return caller.Role == user.RoleSeniorManager
}

// ownEmployeeID prefers the employee id carried by the token and falls back to the user link.
func (s *LeaveServiceImpl) ownEmployeeID(ctx context.Context, caller user.Identity) (string, error) {
	if caller.EmployeeID != nil && *caller.EmployeeID != "" {
		return *caller.EmployeeID, nil
	}
	emp, err := s.employeeRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return "", user.ErrNoEmployeeProfile
		}
		return "", err
	}
	return emp.ID, nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, leave.ToResponse(r))
	}
	return resp
}
