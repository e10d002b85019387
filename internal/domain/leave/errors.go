package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrOverlappingLeave             = errors.New("leave request overlaps an existing request")
	ErrNotTeamManager               = errors.New("you are not authorized to manage this request")
)
