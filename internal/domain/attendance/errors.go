package attendance

import "errors"

var (
	// Clock errors
	ErrAlreadyClockedIn = errors.New("you are already clocked in")
	ErrNotClockedIn     = errors.New("you are not currently clocked in")
	ErrNoClockInToday   = errors.New("no clock-in found for today")
	ErrInvalidSession   = errors.New("invalid attendance session")

	// General errors
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrAttendanceAlreadyExists = errors.New("attendance record already exists for this day")
)
