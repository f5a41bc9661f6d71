package domain

// ApprovalOutcome is the machine-checkable result of processing one
// submission. The chat layer renders it; the core never formats text.
type ApprovalOutcome struct {
	SubmissionID   int64
	UserID         int64 // submitter's chat identity
	Status         SubmissionStatus
	RewardCents    int64 // 0 unless Status is approved
	NewBalance     int64 // user balance after the decision
	CampaignID     int64
	CampaignSpent  int64
	CampaignActive bool
}

// Assignment is a task handed to a user, remembered by the session layer
// until the user answers or requests a new task.
type Assignment struct {
	TelegramID int64
	TaskID     int64
	Title      string
	Prompt     string
	Reward     int64
}
