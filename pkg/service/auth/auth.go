// Package auth authenticates users and issues and reads access tokens.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/amirasaad/bankapi/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

// Strategy verifies credentials and maps users to and from tokens.
type Strategy interface {
	Login(ctx context.Context, email, password string) (*user.User, error)
	GetCurrentUserID(ctx context.Context) (uuid.UUID, error)
	GenerateToken(ctx context.Context, u *user.User) (string, error)
}

type Service struct {
	uow      repository.UnitOfWork
	strategy Strategy
	logger   *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	strategy Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, strategy: strategy, logger: logger}
}

// NewWithBasic returns a Service that checks passwords but issues no tokens.
func NewWithBasic(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return New(uow, NewBasicAuthStrategy(uow, logger), logger)
}

// NewWithJWT returns a Service issuing HS256 tokens signed with cfg.Secret.
func NewWithJWT(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return New(uow, NewJWTStrategy(uow, cfg, logger), logger)
}

func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (u *user.User, err error) {
	log := s.logger.With("context", "Login")
	log.Debug("Login called", "email", email)
	u, err = s.strategy.Login(ctx, user.NormalizeEmail(email), password)
	if err != nil {
		log.Error("Login failed", "email", email, "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	log.Info("Login successful", "userID", u.ID)
	return
}

func (s *Service) GenerateToken(
	ctx context.Context,
	u *user.User,
) (string, error) {
	log := s.logger.With("userID", u.ID)
	log.Debug("GenerateToken called")
	token, err := s.strategy.GenerateToken(ctx, u)
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	log.Info("GenerateToken successful")
	return token, nil
}

// GetCurrentUserID extracts the user id from a verified token.
func (s *Service) GetCurrentUserID(
	token *jwt.Token,
) (userID uuid.UUID, err error) {
	userID, err = s.strategy.GetCurrentUserID(
		context.WithValue(context.Background(), userContextKey, token),
	)
	if err != nil {
		s.logger.Error("GetCurrentUserID failed", "error", err)
	}
	return
}

// checkCredentials loads the user by e-mail and compares the password. An
// unknown e-mail still pays for one bcrypt comparison.
func checkCredentials(
	ctx context.Context,
	uow repository.UnitOfWork,
	email, password string,
) (u *user.User, err error) {
	err = uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.GetByEmail(ctx, email)
		if errors.Is(err, domain.ErrNotFound) {
			utils.BurnPasswordCheck(password)
			return user.ErrUserUnauthorized
		}
		if err != nil {
			return err
		}
		if !utils.CheckPasswordHash(password, u.Password) {
			return user.ErrUserUnauthorized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// JWTStrategy implements Strategy with HS256 signed tokens.
type JWTStrategy struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

func NewJWTStrategy(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *JWTStrategy {
	return &JWTStrategy{uow: uow, cfg: cfg, logger: logger}
}

func (s *JWTStrategy) GenerateToken(
	ctx context.Context,
	u *user.User,
) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID.String(),
		"email":   u.Email,
		"exp":     time.Now().Add(s.cfg.Expiry).Unix(),
	})
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *JWTStrategy) Login(
	ctx context.Context,
	email, password string,
) (*user.User, error) {
	return checkCredentials(ctx, s.uow, email, password)
}

func (s *JWTStrategy) GetCurrentUserID(
	ctx context.Context,
) (userID uuid.UUID, err error) {
	token, ok := ctx.Value(userContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	userIDRaw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	userID, err = uuid.Parse(userIDRaw)
	if err != nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return userID, nil
}

// BasicAuthStrategy implements Strategy for the CLI: passwords are checked
// but no token is issued.
type BasicAuthStrategy struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewBasicAuthStrategy(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *BasicAuthStrategy {
	return &BasicAuthStrategy{uow: uow, logger: logger}
}

func (s *BasicAuthStrategy) Login(
	ctx context.Context,
	email, password string,
) (*user.User, error) {
	s.logger.Debug("BasicAuth Login called", "email", email)
	return checkCredentials(ctx, s.uow, email, password)
}

func (s *BasicAuthStrategy) GetCurrentUserID(ctx context.Context) (uuid.UUID, error) {
	return uuid.Nil, user.ErrUserUnauthorized
}

func (s *BasicAuthStrategy) GenerateToken(ctx context.Context, u *user.User) (string, error) {
	return "", nil
}
