// Package auth registers users, checks their credentials and turns session
// tokens into caller identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/config"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/pkg/repository"
	repouser "github.com/feinledger/fein/pkg/repository/user"
	"github.com/feinledger/fein/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)

// bcrypt hash of a random string, compared against when the email is unknown
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

type Service struct {
	uow      repository.UnitOfWork
	strategy *JWTStrategy
	policy   *access.Policy
	logger   *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	strategy *JWTStrategy,
	policy *access.Policy,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, strategy: strategy, policy: policy, logger: logger}
}

func NewWithJWT(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	policy *access.Policy,
	logger *slog.Logger,
) *Service {
	return New(uow, NewJWTStrategy(cfg, logger), policy, logger)
}

// Strategy exposes the token strategy to the HTTP middleware.
func (s *Service) Strategy() *JWTStrategy {
	return s.strategy
}

// Register creates a user with a hashed password.
func (s *Service) Register(
	ctx context.Context,
	name, email, password string,
) (u *dto.UserRead, err error) {
	log := s.logger.With("context", "Register", "email", email)
	log.Debug("Register called")
	email = utils.NormalizeEmail(email)
	if !utils.IsEmail(email) {
		return nil, domain.Validationf("invalid email address %q", email)
	}
	if err := domain.ValidateLength("email", email, domain.MaxEmailLen); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := domain.ValidateLength("name", name, domain.MaxUserNameLen); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domain.Validationf("password is required")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Error("hash password failed", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}
	create := &dto.UserCreate{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashed,
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[repouser.Repository](uow)
		if err != nil {
			return err
		}
		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return domain.Validationf("email already registered")
		}
		if err := repo.Create(ctx, create); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.Validationf("email already registered")
			}
			return err
		}
		u, err = repo.Get(ctx, create.ID)
		return err
	})
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, err
	}
	log.Info("Register successful", "userID", u.ID)
	return u, nil
}

// Authenticate checks the credentials and returns the matching user.
func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (*dto.UserRead, error) {
	log := s.logger.With("context", "Authenticate", "email", email)
	repo, err := repository.Get[repouser.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	u, err := repo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Error("user lookup failed", "error", err)
		return nil, err
	}
	if u == nil {
		_ = utils.CheckPasswordHash(password, dummyHash)
		log.Warn("unknown email")
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, u.HashedPassword) {
		log.Warn("wrong password", "userID", u.ID)
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (token string, err error) {
	log := s.logger.With("context", "Login")
	log.Debug("Login called", "email", email)
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err = s.IssueToken(u)
	if err != nil {
		return "", err
	}
	log.Info("Login successful", "userID", u.ID)
	return token, nil
}

// IssueToken signs a session token for u.
func (s *Service) IssueToken(u *dto.UserRead) (string, error) {
	return s.strategy.GenerateToken(u)
}

// DecodeToken verifies a raw token string.
func (s *Service) DecodeToken(tokenString string) (*Claims, error) {
	claims, err := s.strategy.Decode(tokenString)
	if err != nil {
		s.logger.Debug("DecodeToken failed", "error", err)
		return nil, err
	}
	return claims, nil
}

// ResolveIdentity loads the user named by the claims and applies the admin policy.
func (s *Service) ResolveIdentity(
	ctx context.Context,
	claims *Claims,
) (access.Identity, error) {
	log := s.logger.With("context", "ResolveIdentity")
	if claims == nil {
		return access.Identity{}, domain.ErrInvalidToken
	}
	repo, err := repository.Get[repouser.Repository](s.uow)
	if err != nil {
		return access.Identity{}, err
	}
	u, err := repo.Get(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn("token names unknown user", "userID", claims.UserID)
		return access.Identity{}, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthenticated)
	}
	if err != nil {
		log.Error("user lookup failed", "error", err)
		return access.Identity{}, err
	}
	return s.policy.Identify(u.ID, u.Email), nil
}

// IdentityFromToken resolves the caller of a token verified by the HTTP middleware.
func (s *Service) IdentityFromToken(
	ctx context.Context,
	token *jwt.Token,
) (access.Identity, error) {
	claims, err := ClaimsFromToken(token)
	if err != nil {
		return access.Identity{}, err
	}
	return s.ResolveIdentity(ctx, claims)
}
