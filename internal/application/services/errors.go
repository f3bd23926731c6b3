package services

import "errors"

var (
	ErrNotFound       = errors.New("upload not found")
	ErrGone           = errors.New("upload is no longer available")
	ErrForbidden      = errors.New("admin access required")
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid setting value")
)
