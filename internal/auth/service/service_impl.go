package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskway/internal/auth/domain"
	"github.com/smallbiznis/taskway/internal/auth/password"
	"github.com/smallbiznis/taskway/internal/auth/token"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type service struct {
	log    *zap.Logger
	repo   domain.Repository
	issuer *token.Issuer
	genID  *snowflake.Node
}

func New(log *zap.Logger, repo domain.Repository, issuer *token.Issuer, genID *snowflake.Node) domain.Service {
	return &service{
		log:    log.Named("auth.service"),
		repo:   repo,
		issuer: issuer,
		genID:  genID,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	surname := strings.TrimSpace(req.Surname)

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidPassword
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))

	return toUserResponse(user), nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.issuer.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		User:        toUserResponse(user),
		AccessToken: accessToken,
	}, nil
}

func (s *service) Authenticate(ctx context.Context, rawToken string) (string, error) {
	email, err := s.issuer.Verify(rawToken)
	if err != nil {
		return "", err
	}

	// The subject must still resolve to an account; tokens survive user
	// deletion otherwise.
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	return email, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	return s.repo.FindByEmail(ctx, normalized)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func toUserResponse(user *domain.User) *domain.UserResponse {
	return &domain.UserResponse{
		ID:      user.ID.String(),
		Name:    user.Name,
		Surname: user.Surname,
		Email:   user.Email,
	}
}
