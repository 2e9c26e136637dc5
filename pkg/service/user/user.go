// Package user provides business logic for user management operations.
package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:    uow,
		logger: logger,
	}
}

// CreateUser registers a user with a hashed password. The e-mail must be
// unused.
func (s *Service) CreateUser(
	ctx context.Context,
	email, password, name string,
) (u *user.User, err error) {
	logger := s.logger.With("email", email)
	logger.Info("CreateUser started")
	u, err = user.NewUser(email, password, name)
	if err != nil {
		logger.Error("CreateUser failed: domain error", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err = repo.GetByEmail(ctx, u.Email); err == nil {
			return user.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err = repo.Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return user.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Error("CreateUser failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	logger.Info("CreateUser successful", "userID", u.ID)
	return u, nil
}

// GetUser returns a user by id.
func (s *Service) GetUser(
	ctx context.Context,
	userID uuid.UUID,
) (u *user.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("GetUser failed", "userID", userID, "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	return u, nil
}

// GetUserByEmail returns a user by e-mail.
func (s *Service) GetUserByEmail(
	ctx context.Context,
	email string,
) (u *user.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.GetByEmail(ctx, user.NormalizeEmail(email))
		return err
	})
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return u, nil
}
