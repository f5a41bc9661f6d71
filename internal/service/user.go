package service

import (
	"context"
	"fmt"

	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/repository"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// Upsert registers the chat identity with a zero balance and reports
// whether this was the first contact. Safe to call on every interaction;
// existing users are untouched.
func (s *UserService) Upsert(ctx context.Context, telegramID int64) (bool, error) {
	created, err := s.store.UpsertUser(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	return created, nil
}

func (s *UserService) Get(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.store.GetUser(ctx, telegramID)
}
