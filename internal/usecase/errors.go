package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrSessionExpired        = errors.New("session expired")
	ErrNetworkUnavailable    = errors.New("network unavailable")
	ErrTimeout               = errors.New("request timed out")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUnparsablePrediction  = errors.New("prediction response is not valid JSON")
)
