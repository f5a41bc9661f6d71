// Package memory implements the ledger store on in-process maps. It mirrors
// the postgres adapter's conflict semantics, including the expected-spent
// check on ApplyApproval, and backs the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users       map[int64]*domain.User
	campaigns   map[int64]*domain.Campaign
	tasks       map[int64]*domain.Task
	submissions map[int64]*domain.Submission
	entries     []domain.LedgerEntry

	nextCampaignID   int64
	nextTaskID       int64
	nextSubmissionID int64
}

func NewStore() *Store {
	return &Store{
		users:            make(map[int64]*domain.User),
		campaigns:        make(map[int64]*domain.Campaign),
		tasks:            make(map[int64]*domain.Task),
		submissions:      make(map[int64]*domain.Submission),
		nextCampaignID:   1,
		nextTaskID:       1,
		nextSubmissionID: 1,
	}
}

func (s *Store) UpsertUser(_ context.Context, telegramID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[telegramID]; exists {
		return false, nil
	}
	now := time.Now().UTC()
	s.users[telegramID] = &domain.User{
		TelegramID: telegramID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return true, nil
}

func (s *Store) GetUser(_ context.Context, telegramID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[telegramID]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *Store) CreateCampaign(_ context.Context, name string, budget int64) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &domain.Campaign{
		ID:        s.nextCampaignID,
		Name:      name,
		Budget:    budget,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	s.nextCampaignID++
	s.campaigns[c.ID] = c
	copied := *c
	return &copied, nil
}

func (s *Store) GetCampaign(_ context.Context, id int64) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.campaigns[id]
	if !exists {
		return nil, domain.ErrCampaignNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *Store) ListCampaigns(_ context.Context) ([]domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns := make([]domain.Campaign, 0, len(s.campaigns))
	for id := int64(1); id < s.nextCampaignID; id++ {
		if c, exists := s.campaigns[id]; exists {
			campaigns = append(campaigns, *c)
		}
	}
	return campaigns, nil
}

func (s *Store) CloseCampaign(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.campaigns[id]
	if !exists {
		return domain.ErrCampaignNotFound
	}
	c.Active = false
	return nil
}

func (s *Store) CreateTask(_ context.Context, campaignID int64, title, prompt string, reward int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaignID]; !exists {
		return nil, domain.ErrCampaignNotFound
	}
	t := &domain.Task{
		ID:         s.nextTaskID,
		CampaignID: campaignID,
		Title:      title,
		Prompt:     prompt,
		Reward:     reward,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	s.nextTaskID++
	s.tasks[t.ID] = t
	copied := *t
	return &copied, nil
}

// SelectEligibleTask returns the lowest-id active task under an active
// campaign, matching the postgres adapter's ordering.
func (s *Store) SelectEligibleTask(_ context.Context) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := int64(1); id < s.nextTaskID; id++ {
		t, exists := s.tasks[id]
		if !exists || !t.Active {
			continue
		}
		c, exists := s.campaigns[t.CampaignID]
		if !exists || !c.Active {
			continue
		}
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (s *Store) CreateSubmission(_ context.Context, telegramID, taskID int64, answer string) (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[taskID]; !exists {
		return nil, domain.ErrTaskNotFound
	}
	sub := &domain.Submission{
		ID:         s.nextSubmissionID,
		TelegramID: telegramID,
		TaskID:     taskID,
		Answer:     answer,
		Status:     domain.SubmissionStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	s.nextSubmissionID++
	s.submissions[sub.ID] = sub
	copied := *sub
	return &copied, nil
}

func (s *Store) ListPendingSubmissions(_ context.Context, limit int) ([]domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subs []domain.Submission
	for id := int64(1); id < s.nextSubmissionID && len(subs) < limit; id++ {
		if sub, exists := s.submissions[id]; exists && sub.Status == domain.SubmissionStatusPending {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (s *Store) LoadApprovalContext(_ context.Context, submissionID int64) (*repository.ApprovalContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.submissions[submissionID]
	if !exists {
		return nil, domain.ErrSubmissionNotFound
	}
	t, exists := s.tasks[sub.TaskID]
	if !exists {
		return nil, domain.ErrTaskNotFound
	}
	c, exists := s.campaigns[t.CampaignID]
	if !exists {
		return nil, domain.ErrCampaignNotFound
	}
	return &repository.ApprovalContext{
		Submission:     *sub,
		TaskTitle:      t.Title,
		Reward:         t.Reward,
		CampaignID:     c.ID,
		Budget:         c.Budget,
		Spent:          c.Spent,
		CampaignActive: c.Active,
	}, nil
}

func (s *Store) ApplyApproval(_ context.Context, p repository.ApplyApprovalParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.campaigns[p.CampaignID]
	if !exists {
		return 0, domain.ErrCampaignNotFound
	}
	// The submission's state decides before the budget guards do: retrying
	// an already-decided submission is ErrInvalidState even when the
	// campaign counters would also conflict.
	sub, exists := s.submissions[p.SubmissionID]
	if !exists {
		return 0, domain.ErrSubmissionNotFound
	}
	if sub.Status != domain.SubmissionStatusPending {
		return 0, domain.ErrInvalidState
	}
	if c.Spent != p.ExpectedSpent {
		return 0, domain.ErrConcurrencyConflict
	}
	if c.Spent+p.Reward > c.Budget {
		return 0, domain.ErrConcurrencyConflict
	}
	u, exists := s.users[p.TelegramID]
	if !exists {
		return 0, domain.ErrUserNotFound
	}

	now := time.Now().UTC()
	c.Spent += p.Reward
	u.Balance += p.Reward
	u.UpdatedAt = now
	sub.Status = domain.SubmissionStatusApproved
	sub.DecidedAt = &now
	s.entries = append(s.entries, domain.LedgerEntry{
		ID:           uuid.NewString(),
		TelegramID:   p.TelegramID,
		CampaignID:   p.CampaignID,
		SubmissionID: p.SubmissionID,
		Amount:       p.Reward,
		EntryType:    domain.EntryTypeReward,
		Description:  p.Description,
		CreatedAt:    now,
	})
	return u.Balance, nil
}

func (s *Store) CloseCampaignUnpaid(_ context.Context, p repository.CloseUnpaidParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.submissions[p.SubmissionID]
	if !exists {
		return domain.ErrSubmissionNotFound
	}
	if sub.Status != domain.SubmissionStatusPending {
		return domain.ErrInvalidState
	}
	c, exists := s.campaigns[p.CampaignID]
	if !exists {
		return domain.ErrCampaignNotFound
	}

	now := time.Now().UTC()
	sub.Status = domain.SubmissionStatusClosedUnpaid
	sub.DecidedAt = &now
	c.Active = false
	return nil
}

func (s *Store) RejectSubmission(_ context.Context, submissionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.submissions[submissionID]
	if !exists {
		return domain.ErrSubmissionNotFound
	}
	if sub.Status != domain.SubmissionStatusPending {
		return domain.ErrInvalidState
	}
	now := time.Now().UTC()
	sub.Status = domain.SubmissionStatusRejected
	sub.DecidedAt = &now
	return nil
}

func (s *Store) CountUsers(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *Store) CountSubmissionsByStatus(_ context.Context, status domain.SubmissionStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, sub := range s.submissions {
		if sub.Status == status {
			n++
		}
	}
	return n, nil
}

// LedgerEntries returns a copy of all recorded entries, oldest first.
func (s *Store) LedgerEntries() []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.LedgerEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// interface guard
var _ repository.Store = (*Store)(nil)
