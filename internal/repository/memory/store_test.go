package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

func seedStore(t *testing.T) (*Store, *domain.Submission) {
	t.Helper()
	s := NewStore()
	ctx := context.Background()

	if _, err := s.UpsertUser(ctx, 10); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	campaign, err := s.CreateCampaign(ctx, "c", 300)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	task, err := s.CreateTask(ctx, campaign.ID, "t", "p", 200)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	sub, err := s.CreateSubmission(ctx, 10, task.ID, "answer")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return s, sub
}

func TestApplyApprovalStaleSpentConflicts(t *testing.T) {
	s, sub := seedStore(t)
	ctx := context.Background()

	_, err := s.ApplyApproval(ctx, repository.ApplyApprovalParams{
		SubmissionID:  sub.ID,
		CampaignID:    1,
		TelegramID:    10,
		Reward:        200,
		ExpectedSpent: 100, // decision made against a stale snapshot
	})
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("err = %v, want ErrConcurrencyConflict", err)
	}

	// Nothing may have been applied.
	user, _ := s.GetUser(ctx, 10)
	if user.Balance != 0 {
		t.Fatalf("balance = %d, want 0", user.Balance)
	}
	campaign, _ := s.GetCampaign(ctx, 1)
	if campaign.Spent != 0 {
		t.Fatalf("spent = %d, want 0", campaign.Spent)
	}
	got, _ := s.LoadApprovalContext(ctx, sub.ID)
	if got.Submission.Status != domain.SubmissionStatusPending {
		t.Fatalf("status = %s, want pending", got.Submission.Status)
	}
}

func TestApplyApprovalOverBudgetConflicts(t *testing.T) {
	s, sub := seedStore(t)
	ctx := context.Background()

	_, err := s.ApplyApproval(ctx, repository.ApplyApprovalParams{
		SubmissionID:  sub.ID,
		CampaignID:    1,
		TelegramID:    10,
		Reward:        500, // exceeds the 300 budget
		ExpectedSpent: 0,
	})
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("err = %v, want ErrConcurrencyConflict", err)
	}
}

func TestApplyApprovalTerminalSubmission(t *testing.T) {
	s, sub := seedStore(t)
	ctx := context.Background()

	p := repository.ApplyApprovalParams{
		SubmissionID:  sub.ID,
		CampaignID:    1,
		TelegramID:    10,
		Reward:        200,
		ExpectedSpent: 0,
	}
	if _, err := s.ApplyApproval(ctx, p); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Retry against the fresh spent. The second 200 would also blow the
	// 300 budget, but a decided submission must report ErrInvalidState,
	// not a budget conflict.
	p.ExpectedSpent = 200
	_, err := s.ApplyApproval(ctx, p)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}

	campaign, _ := s.GetCampaign(ctx, 1)
	if campaign.Spent != 200 {
		t.Fatalf("spent = %d, want 200", campaign.Spent)
	}
	user, _ := s.GetUser(ctx, 10)
	if user.Balance != 200 {
		t.Fatalf("balance = %d, want 200", user.Balance)
	}
}

func TestCloseCampaignUnpaidVoidsOnlyPending(t *testing.T) {
	s, sub := seedStore(t)
	ctx := context.Background()

	if err := s.CloseCampaignUnpaid(ctx, repository.CloseUnpaidParams{
		SubmissionID: sub.ID,
		CampaignID:   1,
	}); err != nil {
		t.Fatalf("close unpaid: %v", err)
	}

	campaign, _ := s.GetCampaign(ctx, 1)
	if campaign.Active {
		t.Fatal("campaign must be inactive")
	}

	err := s.CloseCampaignUnpaid(ctx, repository.CloseUnpaidParams{
		SubmissionID: sub.ID,
		CampaignID:   1,
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("repeat close: err = %v, want ErrInvalidState", err)
	}
}

func TestSelectEligibleTaskSkipsInactive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	closed, _ := s.CreateCampaign(ctx, "closed", 100)
	s.CreateTask(ctx, closed.ID, "hidden", "p", 50)
	if err := s.CloseCampaign(ctx, closed.ID); err != nil {
		t.Fatalf("close campaign: %v", err)
	}

	open, _ := s.CreateCampaign(ctx, "open", 100)
	visible, _ := s.CreateTask(ctx, open.ID, "visible", "p", 50)

	task, err := s.SelectEligibleTask(ctx)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if task == nil || task.ID != visible.ID {
		t.Fatalf("task = %+v, want id %d", task, visible.ID)
	}
}

func TestSelectEligibleTaskEmpty(t *testing.T) {
	s := NewStore()

	task, err := s.SelectEligibleTask(context.Background())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if task != nil {
		t.Fatalf("task = %+v, want nil", task)
	}
}

func TestRejectSubmissionTransitions(t *testing.T) {
	s, sub := seedStore(t)
	ctx := context.Background()

	if err := s.RejectSubmission(ctx, sub.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := s.RejectSubmission(ctx, sub.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("repeat reject: err = %v, want ErrInvalidState", err)
	}
	if err := s.RejectSubmission(ctx, 99); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("unknown: err = %v, want ErrSubmissionNotFound", err)
	}
}

func TestCreateSubmissionUnknownTask(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.UpsertUser(ctx, 10); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	_, err := s.CreateSubmission(ctx, 10, 7, "answer")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}
