package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
	ErrInvalidRole  = errors.New("invalid role")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	UpdateProfile(ctx context.Context, id uint, name, phone string) (domain.User, error)
	ReplaceRoles(ctx context.Context, id uint, roles []string) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, name, phone string) (domain.User, error) {
	user, err := s.repo.UpdateProfile(ctx, id, name, phone)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	return user, nil
}

// ReplaceRoles drops duplicates and rejects roles the system does not know.
func (s *UserService) ReplaceRoles(ctx context.Context, id uint, roles []string) (domain.User, error) {
	seen := make(map[string]bool, len(roles))
	unique := make([]string, 0, len(roles))
	for _, role := range roles {
		if !isKnownRole(role) {
			return domain.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
		}
		if seen[role] {
			continue
		}
		seen[role] = true
		unique = append(unique, role)
	}

	user, err := s.repo.ReplaceRoles(ctx, id, unique)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.ReplaceRoles -> %w", err)
	}

	return user, nil
}

func isKnownRole(role string) bool {
	for _, r := range domain.Roles {
		if r == role {
			return true
		}
	}
	return false
}
