package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

type SubmissionService struct {
	store repository.Store
}

func NewSubmissionService(store repository.Store) *SubmissionService {
	return &SubmissionService{store: store}
}

// Submit records a pending answer for the given task.
func (s *SubmissionService) Submit(ctx context.Context, telegramID, taskID int64, answer string) (*domain.Submission, error) {
	sub, err := s.store.CreateSubmission(ctx, telegramID, taskID, answer)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}
