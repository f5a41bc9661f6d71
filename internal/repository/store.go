package repository

import (
	"context"

	"github.com/tarealabs/tareabot/internal/domain"
)

// ApprovalContext is the consistent snapshot an approval decision is made
// against: the submission joined to its task's reward and the owning
// campaign's budget counters.
type ApprovalContext struct {
	Submission     domain.Submission
	TaskTitle      string
	Reward         int64
	CampaignID     int64
	Budget         int64
	Spent          int64
	CampaignActive bool
}

// ApplyApprovalParams carries a payout into the store. ExpectedSpent is the
// spent value the decision was made against; the store must refuse the
// write with domain.ErrConcurrencyConflict if the campaign's spent has
// moved since, so a stale decision is never committed.
type ApplyApprovalParams struct {
	SubmissionID  int64
	CampaignID    int64
	TelegramID    int64
	Reward        int64
	ExpectedSpent int64
	Description   string
}

// CloseUnpaidParams closes an exhausted campaign and voids the submission
// that hit the limit, as one unit.
type CloseUnpaidParams struct {
	SubmissionID int64
	CampaignID   int64
}

// Store is the durable ledger behind the reward engine. Implementations
// must make ApplyApproval, CloseCampaignUnpaid and RejectSubmission
// all-or-nothing, and must never commit a state where spent > budget.
type Store interface {
	// UpsertUser creates the user with zero balance if absent and reports
	// whether the user was created. Calling it again for the same id is a
	// no-op, never an error.
	UpsertUser(ctx context.Context, telegramID int64) (bool, error)
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)

	CreateCampaign(ctx context.Context, name string, budget int64) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	// CloseCampaign sets active to false. Idempotent.
	CloseCampaign(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, campaignID int64, title, prompt string, reward int64) (*domain.Task, error)
	// SelectEligibleTask returns the active task with the lowest id whose
	// campaign is also active, or (nil, nil) when none is available.
	SelectEligibleTask(ctx context.Context) (*domain.Task, error)

	CreateSubmission(ctx context.Context, telegramID, taskID int64, answer string) (*domain.Submission, error)
	ListPendingSubmissions(ctx context.Context, limit int) ([]domain.Submission, error)

	LoadApprovalContext(ctx context.Context, submissionID int64) (*ApprovalContext, error)
	// ApplyApproval atomically credits the user, increments campaign spent
	// and marks the submission approved. Returns the user's new balance.
	ApplyApproval(ctx context.Context, p ApplyApprovalParams) (int64, error)
	// CloseCampaignUnpaid atomically deactivates the campaign and marks the
	// submission closed_unpaid. No balance or spent mutation.
	CloseCampaignUnpaid(ctx context.Context, p CloseUnpaidParams) error
	// RejectSubmission marks a pending submission rejected. Terminal, no
	// payout, campaign untouched.
	RejectSubmission(ctx context.Context, submissionID int64) error

	CountUsers(ctx context.Context) (int64, error)
	CountSubmissionsByStatus(ctx context.Context, status domain.SubmissionStatus) (int64, error)
}
