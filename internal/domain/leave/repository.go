package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	// GetByID joins the requester's name and manager.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ListByEmployee returns an employee's requests, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	// ListPending returns pending requests, oldest first. A nil managerID lists every
	// pending request; otherwise only those of the manager's direct reports.
	ListPending(ctx context.Context, managerID *string) ([]LeaveRequest, error)

	// Decide moves a PENDING request to status. A request that is no longer pending
	// fails with ErrLeaveRequestAlreadyProcessed.
	Decide(ctx context.Context, id string, status RequestStatus, decidedBy string) (LeaveRequest, error)
}
