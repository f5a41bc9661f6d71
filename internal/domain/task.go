package domain

import "time"

// Task is a unit of work with a fixed reward, belonging to one campaign.
// The reward is immutable once created.
type Task struct {
	ID         int64
	CampaignID int64
	Title      string
	Prompt     string
	Reward     int64 // cents
	Active     bool
	CreatedAt  time.Time
}
