package domain

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending      SubmissionStatus = "pending"
	SubmissionStatusApproved     SubmissionStatus = "approved"
	SubmissionStatusClosedUnpaid SubmissionStatus = "closed_unpaid"
	SubmissionStatusRejected     SubmissionStatus = "rejected"
)

// Terminal reports whether the status is final. A submission transitions
// at most once from pending; terminal submissions are immutable.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionStatusApproved ||
		s == SubmissionStatusClosedUnpaid ||
		s == SubmissionStatusRejected
}

type Submission struct {
	ID         int64
	TelegramID int64
	TaskID     int64
	Answer     string
	Status     SubmissionStatus
	DecidedAt  *time.Time
	CreatedAt  time.Time
}

func (s *Submission) Pending() bool {
	return s.Status == SubmissionStatusPending
}
