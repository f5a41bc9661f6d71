package config

import "time"

const (
	// Approval retry budget on serialization conflicts
	ApprovalMaxAttempts = 3

	// Task assignment lifetime; a new /task request replaces the old one
	AssignmentTTL     = 15 * time.Minute
	AssignmentCleanup = 60 * time.Second

	// Admin review queue page size
	PendingListLimit = 20

	// Rate limits (messages per minute per chat)
	RateLimitPerMinute = 20
)
