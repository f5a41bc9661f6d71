package domain

import "time"

type EntryType string

const (
	EntryTypeReward EntryType = "reward"
)

// LedgerEntry is the audit record written alongside every payout.
type LedgerEntry struct {
	ID           string
	TelegramID   int64
	CampaignID   int64
	SubmissionID int64
	Amount       int64 // cents
	EntryType    EntryType
	Description  string
	CreatedAt    time.Time
}
