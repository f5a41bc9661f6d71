package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrInvalidState        = errors.New("submission already decided")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
	ErrUnauthorized        = errors.New("admin rights required")
)
