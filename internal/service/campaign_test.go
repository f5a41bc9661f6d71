package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository/memory"
	"github.com/tarealabs/tareabot/internal/service"
)

func TestCreateCampaignValidation(t *testing.T) {
	campaigns := service.NewCampaignService(memory.NewStore())
	ctx := context.Background()

	if _, err := campaigns.Create(ctx, admin, "c", -1); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("negative budget: err = %v, want ErrInvalidAmount", err)
	}

	// Zero budget is legal; such a campaign just cannot pay anything out.
	c, err := campaigns.Create(ctx, admin, "empty", 0)
	if err != nil {
		t.Fatalf("zero budget: %v", err)
	}
	if !c.Active || c.Spent != 0 {
		t.Fatalf("new campaign = %+v, want active with zero spent", c)
	}
}

func TestAddTaskValidation(t *testing.T) {
	store := memory.NewStore()
	campaigns := service.NewCampaignService(store)
	ctx := context.Background()

	c, err := campaigns.Create(ctx, admin, "c", 1000)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	if _, err := campaigns.AddTask(ctx, admin, c.ID, "t", "p", 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero reward: err = %v, want ErrInvalidAmount", err)
	}
	if _, err := campaigns.AddTask(ctx, admin, 99, "t", "p", 100); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("unknown campaign: err = %v, want ErrCampaignNotFound", err)
	}

	task, err := campaigns.AddTask(ctx, admin, c.ID, "t", "p", 100)
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if task.CampaignID != c.ID || task.Reward != 100 || !task.Active {
		t.Fatalf("task = %+v", task)
	}
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	campaigns := service.NewCampaignService(memory.NewStore())
	ctx := context.Background()
	user := domain.Actor{TelegramID: 10}

	if _, err := campaigns.Create(ctx, user, "c", 100); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("create: err = %v, want ErrUnauthorized", err)
	}
	if _, err := campaigns.AddTask(ctx, user, 1, "t", "p", 100); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("add task: err = %v, want ErrUnauthorized", err)
	}
	if err := campaigns.Close(ctx, user, 1); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("close: err = %v, want ErrUnauthorized", err)
	}
	if _, err := campaigns.List(ctx, user); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("list: err = %v, want ErrUnauthorized", err)
	}
}

func TestCloseCampaignIdempotent(t *testing.T) {
	store := memory.NewStore()
	campaigns := service.NewCampaignService(store)
	ctx := context.Background()

	c, err := campaigns.Create(ctx, admin, "c", 1000)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if err := campaigns.Close(ctx, admin, c.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := campaigns.Close(ctx, admin, c.ID); err != nil {
		t.Fatalf("second close: %v", err)
	}

	got, _ := store.GetCampaign(ctx, c.ID)
	if got.Active {
		t.Fatal("campaign must be inactive")
	}
}
