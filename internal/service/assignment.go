package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tarealabs/tareabot/internal/config"
	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

type pendingAssignment struct {
	taskID    int64
	expiresAt time.Time
}

// AssignmentService hands out eligible tasks and remembers which task each
// user is currently answering. Assignments are session state, not ledger
// state: they live in memory, expire after config.AssignmentTTL, and a new
// request overwrites the previous one. Tasks are not reserved — several
// users may hold the same task at once; only submissions consume budget.
type AssignmentService struct {
	store repository.Store

	mu      sync.Mutex
	pending map[int64]pendingAssignment
}

func NewAssignmentService(store repository.Store) *AssignmentService {
	return &AssignmentService{
		store:   store,
		pending: make(map[int64]pendingAssignment),
	}
}

// Next picks the eligible task with the lowest id (active task under an
// active campaign) and records it as the user's pending assignment.
// Returns (nil, nil) when no task is available.
func (s *AssignmentService) Next(ctx context.Context, telegramID int64) (*domain.Assignment, error) {
	task, err := s.store.SelectEligibleTask(ctx)
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	if task == nil {
		s.Clear(telegramID)
		return nil, nil
	}

	s.mu.Lock()
	s.pending[telegramID] = pendingAssignment{
		taskID:    task.ID,
		expiresAt: time.Now().Add(config.AssignmentTTL),
	}
	s.mu.Unlock()

	return &domain.Assignment{
		TelegramID: telegramID,
		TaskID:     task.ID,
		Title:      task.Title,
		Prompt:     task.Prompt,
		Reward:     task.Reward,
	}, nil
}

// Current returns the task id the user is answering, if any unexpired
// assignment exists.
func (s *AssignmentService) Current(telegramID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.pending[telegramID]
	if !ok {
		return 0, false
	}
	if time.Now().After(a.expiresAt) {
		delete(s.pending, telegramID)
		return 0, false
	}
	return a.taskID, true
}

func (s *AssignmentService) Clear(telegramID int64) {
	s.mu.Lock()
	delete(s.pending, telegramID)
	s.mu.Unlock()
}

// CleanupExpired drops stale assignments; called periodically from main.
func (s *AssignmentService) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, a := range s.pending {
		if now.After(a.expiresAt) {
			delete(s.pending, id)
			removed++
		}
	}
	return removed
}
