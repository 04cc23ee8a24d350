package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"theme-catalog/internal/domain"
	"theme-catalog/pkg/utils"
)

type ThemeService struct {
	themes domain.ThemeRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewThemeService(themes domain.ThemeRepository, log *zap.Logger) *ThemeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ThemeService{themes: themes, log: log.Named("theme"), now: time.Now}
}

// Create createdById = updatedById = 当前用户
func (s *ThemeService) Create(ctx context.Context, in domain.ThemeInput, actorID string) (*domain.Theme, error) {
	now := s.now()
	t := &domain.Theme{
		ID:           utils.NewID(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		ThemeConfig:  in.ThemeConfig,
		GoogleFonts:  orEmpty(in.GoogleFonts),
		Tags:         orEmpty(in.Tags),
		PreviewImage: in.PreviewImage,
		IsActive:     true,
		CreatedByID:  actorID,
		UpdatedByID:  actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.themes.Insert(ctx, t); err != nil {
		return nil, translateDBError(s.log, "theme.create", err)
	}
	return t, nil
}

func (s *ThemeService) FindAll(ctx context.Context, q domain.ThemeQuery) (*domain.ThemePage, error) {
	q = q.Normalize()
	items, total, err := s.themes.FindMany(ctx, q)
	if err != nil {
		return nil, translateDBError(s.log, "theme.list", err)
	}
	return &domain.ThemePage{Data: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// FindOne 软删与不存在对外不可区分
func (s *ThemeService) FindOne(ctx context.Context, id string) (*domain.Theme, error) {
	t, err := s.themes.FindByID(ctx, id)
	if err != nil {
		return nil, translateDBError(s.log, "theme.find", err)
	}
	if t == nil {
		return nil, domain.NotFound("theme not found")
	}
	return t, nil
}

func (s *ThemeService) Update(ctx context.Context, id string, p domain.ThemePatch, actorID string) (*domain.Theme, error) {
	t, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.ThemeConfig != nil {
		t.ThemeConfig = p.ThemeConfig
	}
	if p.GoogleFonts != nil {
		t.GoogleFonts = orEmpty(*p.GoogleFonts)
	}
	if p.Tags != nil {
		t.Tags = orEmpty(*p.Tags)
	}
	if p.PreviewImage != nil {
		t.PreviewImage = p.PreviewImage
	}
	t.UpdatedByID = actorID
	t.UpdatedAt = s.now()

	if err := s.themes.Update(ctx, t); err != nil {
		// 读写之间被并发删除
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("theme not found")
		}
		return nil, translateDBError(s.log, "theme.update", err)
	}
	return s.FindOne(ctx, id)
}

func (s *ThemeService) Remove(ctx context.Context, id string) error {
	if _, err := s.FindOne(ctx, id); err != nil {
		return err
	}
	if err := s.themes.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("theme not found")
		}
		return translateDBError(s.log, "theme.remove", err)
	}
	return nil
}

func orEmpty(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}
