package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"authapi/internal/auth"
	"authapi/internal/cache"
	apperrors "authapi/internal/errors"
	"authapi/internal/model"
	"authapi/internal/policy"
	"authapi/internal/repository"
)

// DefaultUserCacheTTL is used when no TTL is configured.
const DefaultUserCacheTTL = 5 * time.Minute

// UserService exposes user management operations. Update and Delete take
// the acting identity and enforce the self-or-admin rules.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.UserView, error)
	GetUser(ctx context.Context, id uint) (*model.UserView, error)
	UpdateUser(ctx context.Context, actor auth.Identity, id uint, update model.UserUpdate) (*model.UserView, error)
	DeleteUser(ctx context.Context, actor auth.Identity, id uint) (*model.DeletedUser, error)
}

type userService struct {
	repo     repository.UserRepository
	cache    *cache.Client
	cacheTTL time.Duration
	policy   *policy.Policy
	log      logrus.FieldLogger
}

// NewUserService builds a UserService with repository, cache and policy.
func NewUserService(repo repository.UserRepository, cache *cache.Client, cacheTTL time.Duration, p *policy.Policy, log logrus.FieldLogger) UserService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultUserCacheTTL
	}
	return &userService{repo: repo, cache: cache, cacheTTL: cacheTTL, policy: p, log: log}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserView, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]model.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.UserView, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.UserView
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}

	view := user.View()
	if payload, err := json.Marshal(view); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, s.cacheTTL)
	}
	s.log.WithField("user_id", id).Debug("User fetched successfully")
	return &view, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor auth.Identity, id uint, update model.UserUpdate) (*model.UserView, error) {
	if err := s.policy.RequireSelfOrAdmin(actor, id, policy.ActionUpdate); err != nil {
		return nil, err
	}
	if err := s.policy.RoleChangeGuard(actor, id, update); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, translateStoreError(err)
	}

	if update.Email != nil {
		other, err := s.repo.FindByEmail(ctx, *update.Email)
		switch {
		case err == nil && other.ID != id:
			return nil, apperrors.ErrDuplicateEmail
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, translateStoreError(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	s.log.WithFields(logrus.Fields{"user_id": id, "actor": actor.Email}).Info("User updated successfully")
	view := user.View()
	return &view, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor auth.Identity, id uint) (*model.DeletedUser, error) {
	if err := s.policy.RequireSelfOrAdmin(actor, id, policy.ActionDelete); err != nil {
		return nil, err
	}
	if err := s.policy.SelfDeletionGuard(actor, id); err != nil {
		return nil, err
	}

	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	s.log.WithFields(logrus.Fields{"user_id": id, "actor": actor.Email}).Info("User deleted successfully")
	return &model.DeletedUser{ID: user.ID, Email: user.Email}, nil
}

func translateStoreError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrDuplicateEmail
	default:
		return err
	}
}
