package service

import "errors"

// Service errors
var (
	ErrChildNotFound     = errors.New("child not found")
	ErrChildInactive     = errors.New("child profile is deactivated")
	ErrScheduleBlocked   = errors.New("reading is not allowed at this time")
	ErrDailyLimitReached = errors.New("daily reading limit reached")
	ErrBookNotFound      = errors.New("book not found")
	ErrBookNotAllowed    = errors.New("book is not allowed for this child")
	ErrSessionNotFound   = errors.New("reading session not found")
	ErrSessionEnded      = errors.New("reading session has already ended")
)
