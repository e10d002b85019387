package leave

import "context"

type LeaveService interface {
	// CreateRequest files a request for the caller's own employee profile.
	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	MyRequests(ctx context.Context) ([]LeaveRequestResponse, error)

	// TeamRequests lists pending requests the caller may decide: every request for
	// an admin, direct reports for a senior manager.
	TeamRequests(ctx context.Context) ([]LeaveRequestResponse, error)

	Decide(ctx context.Context, req DecideLeaveRequestRequest) (LeaveRequestResponse, error)
}
