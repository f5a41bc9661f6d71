package service_test

import (
	"context"
	"testing"

	"github.com/tarealabs/tareabot/internal/repository/memory"
	"github.com/tarealabs/tareabot/internal/service"
)

func TestUpsertIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	users := service.NewUserService(store)
	approvals := service.NewApprovalService(store)
	ctx := context.Background()

	created, err := users.Upsert(ctx, 10)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert must report a new user")
	}

	// Earn a balance, then upsert again: the balance must survive.
	campaign, _ := store.CreateCampaign(ctx, "c", 500)
	task, _ := store.CreateTask(ctx, campaign.ID, "t", "p", 100)
	sub, _ := store.CreateSubmission(ctx, 10, task.ID, "answer")
	if _, err := approvals.Approve(ctx, admin, sub.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	created, err = users.Upsert(ctx, 10)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("second upsert must not report a new user")
	}

	user, err := users.Get(ctx, 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Balance != 100 {
		t.Fatalf("balance = %d, want 100", user.Balance)
	}
}
