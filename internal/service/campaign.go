package service

import (
	"context"
	"fmt"

	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

type CampaignService struct {
	store repository.Store
}

func NewCampaignService(store repository.Store) *CampaignService {
	return &CampaignService{store: store}
}

// Create opens a campaign with the given budget in cents. Admin only.
func (s *CampaignService) Create(ctx context.Context, actor domain.Actor, name string, budget int64) (*domain.Campaign, error) {
	if !actor.Admin {
		return nil, domain.ErrUnauthorized
	}
	if budget < 0 {
		return nil, domain.ErrInvalidAmount
	}
	campaign, err := s.store.CreateCampaign(ctx, name, budget)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

// AddTask attaches a task to an existing campaign. The reward is fixed at
// creation; there is no edit operation.
func (s *CampaignService) AddTask(ctx context.Context, actor domain.Actor, campaignID int64, title, prompt string, reward int64) (*domain.Task, error) {
	if !actor.Admin {
		return nil, domain.ErrUnauthorized
	}
	if reward <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	return s.store.CreateTask(ctx, campaignID, title, prompt, reward)
}

// Close deactivates a campaign. Idempotent.
func (s *CampaignService) Close(ctx context.Context, actor domain.Actor, campaignID int64) error {
	if !actor.Admin {
		return domain.ErrUnauthorized
	}
	return s.store.CloseCampaign(ctx, campaignID)
}

func (s *CampaignService) List(ctx context.Context, actor domain.Actor) ([]domain.Campaign, error) {
	if !actor.Admin {
		return nil, domain.ErrUnauthorized
	}
	return s.store.ListCampaigns(ctx)
}
