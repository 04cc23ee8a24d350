package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"theme-catalog/internal/domain"
	"theme-catalog/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewUserService(users domain.UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, log: log.Named("user"), now: time.Now}
}

// Create 哈希密码后写入；email 唯一冲突 -> Conflict
func (s *UserService) Create(ctx context.Context, in domain.CreateUserInput) (*domain.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, translateDBError(s.log, "user.create", err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, translateDBError(s.log, "user.find", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	us, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, translateDBError(s.log, "user.list", err)
	}
	return us, nil
}

// FindByEmail 查不到返回 (nil, nil)
func (s *UserService) FindByEmail(ctx context.Context, email string, withPassword bool) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, email, withPassword)
	if err != nil {
		return nil, translateDBError(s.log, "user.find_by_email", err)
	}
	return u, nil
}

// ValidatePassword 邮箱不存在或密码不符都返回 (nil, nil)
func (s *UserService) ValidatePassword(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.FindByEmail(ctx, email, true)
	if err != nil || u == nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, nil
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.Password != nil {
		hash, err := hashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.now()

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, translateDBError(s.log, "user.update", err)
	}
	u.PasswordHash = ""
	return u, nil
}

// hashPassword 超过 bcrypt 长度上限属于入参错误
func hashPassword(pw string) (string, error) {
	hash, err := utils.HashPassword(pw)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", domain.Invalid("password must be at most 72 bytes")
	case err != nil:
		return "", domain.Internal("error hashing password", err)
	}
	return hash, nil
}
