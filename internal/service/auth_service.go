package service

import (
	"context"

	"go.uber.org/zap"

	"theme-catalog/internal/domain"
)

// TokenIssuer 由 auth.JWTer 实现
type TokenIssuer interface {
	Issue(uid, email string) (string, error)
}

type AuthResult struct {
	AccessToken string            `json:"access_token"`
	User        domain.PublicUser `json:"user"`
}

type AuthService struct {
	users  *UserService
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthService(users *UserService, tokens TokenIssuer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, log: log.Named("auth")}
}

func (s *AuthService) Register(ctx context.Context, in domain.CreateUserInput) (*AuthResult, error) {
	u, err := s.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.Internal("error creating user", nil)
	}
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.ValidatePassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.Unauthorized("invalid credentials")
	}
	return s.issue(u)
}

// Me 返回 token 持有者的公开资料
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.PublicUser, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.Public()
	return &p, nil
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		s.log.Error("sign token", zap.String("uid", u.ID), zap.Error(err))
		return nil, domain.Internal("internal server error", err)
	}
	return &AuthResult{AccessToken: tok, User: u.Public()}, nil
}
