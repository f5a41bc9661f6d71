package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tarealabs/tareabot/internal/config"
	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

// ApprovalService drives the submission decision flow: load a consistent
// snapshot, let the campaign decide whether the reward fits, then commit
// exactly one of the two outcomes atomically. A stale snapshot surfaces as
// domain.ErrConcurrencyConflict from the store and the whole flow is
// re-run from a fresh read, bounded by config.ApprovalMaxAttempts.
type ApprovalService struct {
	store repository.Store
}

func NewApprovalService(store repository.Store) *ApprovalService {
	return &ApprovalService{store: store}
}

// Approve processes one pending submission on behalf of an admin.
//
// Either the reward fits the remaining budget — user credited, campaign
// spent incremented, submission approved — or it does not, in which case
// the campaign is closed and the submission voided unpaid. Exact
// exhaustion (spent+reward == budget) pays and leaves the campaign open.
func (s *ApprovalService) Approve(ctx context.Context, actor domain.Actor, submissionID int64) (*domain.ApprovalOutcome, error) {
	if !actor.Admin {
		return nil, domain.ErrUnauthorized
	}

	for attempt := 1; attempt <= config.ApprovalMaxAttempts; attempt++ {
		outcome, err := s.approveOnce(ctx, submissionID)
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			slog.Warn("approval conflict, retrying",
				"submission_id", submissionID,
				"attempt", attempt,
			)
			continue
		}
		return outcome, err
	}
	return nil, domain.ErrConcurrencyConflict
}

func (s *ApprovalService) approveOnce(ctx context.Context, submissionID int64) (*domain.ApprovalOutcome, error) {
	ac, err := s.store.LoadApprovalContext(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !ac.Submission.Pending() {
		return nil, domain.ErrInvalidState
	}

	campaign := domain.Campaign{
		ID:     ac.CampaignID,
		Budget: ac.Budget,
		Spent:  ac.Spent,
		Active: ac.CampaignActive,
	}

	if campaign.DecideReward(ac.Reward) == domain.DecisionRejectAndClose {
		if err := s.store.CloseCampaignUnpaid(ctx, repository.CloseUnpaidParams{
			SubmissionID: submissionID,
			CampaignID:   ac.CampaignID,
		}); err != nil {
			return nil, err
		}
		slog.Info("campaign exhausted, submission closed unpaid",
			"submission_id", submissionID,
			"campaign_id", ac.CampaignID,
			"reward", ac.Reward,
			"remaining", campaign.Remaining(),
		)
		return &domain.ApprovalOutcome{
			SubmissionID:   submissionID,
			UserID:         ac.Submission.TelegramID,
			Status:         domain.SubmissionStatusClosedUnpaid,
			CampaignID:     ac.CampaignID,
			CampaignSpent:  ac.Spent,
			CampaignActive: false,
		}, nil
	}

	newBalance, err := s.store.ApplyApproval(ctx, repository.ApplyApprovalParams{
		SubmissionID:  submissionID,
		CampaignID:    ac.CampaignID,
		TelegramID:    ac.Submission.TelegramID,
		Reward:        ac.Reward,
		ExpectedSpent: ac.Spent,
		Description:   fmt.Sprintf("Task reward: %s", ac.TaskTitle),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("submission approved",
		"submission_id", submissionID,
		"campaign_id", ac.CampaignID,
		"user_id", ac.Submission.TelegramID,
		"reward", ac.Reward,
	)
	return &domain.ApprovalOutcome{
		SubmissionID:   submissionID,
		UserID:         ac.Submission.TelegramID,
		Status:         domain.SubmissionStatusApproved,
		RewardCents:    ac.Reward,
		NewBalance:     newBalance,
		CampaignID:     ac.CampaignID,
		CampaignSpent:  ac.Spent + ac.Reward,
		CampaignActive: true,
	}, nil
}

// Reject marks a pending submission rejected without touching the campaign
// budget or the user balance.
func (s *ApprovalService) Reject(ctx context.Context, actor domain.Actor, submissionID int64) (*domain.ApprovalOutcome, error) {
	if !actor.Admin {
		return nil, domain.ErrUnauthorized
	}
	if err := s.store.RejectSubmission(ctx, submissionID); err != nil {
		return nil, err
	}
	return &domain.ApprovalOutcome{
		SubmissionID: submissionID,
		Status:       domain.SubmissionStatusRejected,
	}, nil
}

// Pending lists the admin review queue, oldest first.
func (s *ApprovalService) Pending(ctx context.Context, actor domain.Actor) ([]domain.Submission, error) {
	if !actor.Admin {
		return nil, domain.ErrUnauthorized
	}
	return s.store.ListPendingSubmissions(ctx, config.PendingListLimit)
}
