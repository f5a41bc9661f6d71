package service_test

import (
	"context"
	"testing"

	"github.com/tarealabs/tareabot/internal/repository/memory"
	"github.com/tarealabs/tareabot/internal/service"
)

func TestNextReturnsLowestEligibleTask(t *testing.T) {
	store := memory.NewStore()
	assignments := service.NewAssignmentService(store)
	ctx := context.Background()

	campaign, err := store.CreateCampaign(ctx, "c", 1000)
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	first, err := store.CreateTask(ctx, campaign.ID, "first", "p1", 100)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := store.CreateTask(ctx, campaign.ID, "second", "p2", 100); err != nil {
		t.Fatalf("create task: %v", err)
	}

	a, err := assignments.Next(ctx, 10)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a == nil || a.TaskID != first.ID {
		t.Fatalf("assignment = %+v, want task %d", a, first.ID)
	}

	taskID, ok := assignments.Current(10)
	if !ok || taskID != first.ID {
		t.Fatalf("current = (%d, %v), want (%d, true)", taskID, ok, first.ID)
	}
}

func TestNextWithNoEligibleTask(t *testing.T) {
	store := memory.NewStore()
	assignments := service.NewAssignmentService(store)
	ctx := context.Background()

	a, err := assignments.Next(ctx, 10)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a != nil {
		t.Fatalf("assignment = %+v, want nil", a)
	}
	if _, ok := assignments.Current(10); ok {
		t.Fatal("no assignment should be remembered")
	}
}

func TestNextOverwritesPriorAssignment(t *testing.T) {
	store := memory.NewStore()
	assignments := service.NewAssignmentService(store)
	ctx := context.Background()

	c1, _ := store.CreateCampaign(ctx, "c1", 1000)
	t1, _ := store.CreateTask(ctx, c1.ID, "t1", "p", 100)

	if _, err := assignments.Next(ctx, 10); err != nil {
		t.Fatalf("next: %v", err)
	}

	// Close the first campaign; the next request must hand out a task from
	// the second and replace the remembered assignment.
	if err := store.CloseCampaign(ctx, c1.ID); err != nil {
		t.Fatalf("close campaign: %v", err)
	}
	c2, _ := store.CreateCampaign(ctx, "c2", 1000)
	t2, _ := store.CreateTask(ctx, c2.ID, "t2", "p", 100)

	a, err := assignments.Next(ctx, 10)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a.TaskID != t2.ID {
		t.Fatalf("task = %d, want %d", a.TaskID, t2.ID)
	}

	taskID, ok := assignments.Current(10)
	if !ok || taskID != t2.ID {
		t.Fatalf("current = (%d, %v), want (%d, true)", taskID, ok, t2.ID)
	}
	if taskID == t1.ID {
		t.Fatal("old assignment survived")
	}
}

func TestClearForgetsAssignment(t *testing.T) {
	store := memory.NewStore()
	assignments := service.NewAssignmentService(store)
	ctx := context.Background()

	c, _ := store.CreateCampaign(ctx, "c", 1000)
	store.CreateTask(ctx, c.ID, "t", "p", 100)

	if _, err := assignments.Next(ctx, 10); err != nil {
		t.Fatalf("next: %v", err)
	}
	assignments.Clear(10)
	if _, ok := assignments.Current(10); ok {
		t.Fatal("assignment should be cleared")
	}
}
