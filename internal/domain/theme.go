package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

type Theme struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	ThemeConfig  json.RawMessage `json:"themeConfig"`
	GoogleFonts  []string        `json:"googleFonts"`
	Tags         []string        `json:"tags"`
	PreviewImage *string         `json:"previewImage"`
	IsActive     bool            `json:"isActive"`
	CreatedByID  string          `json:"createdById"`
	UpdatedByID  string          `json:"updatedById"`
	CreatedBy    *PublicUser     `json:"createdBy,omitempty"`
	UpdatedBy    *PublicUser     `json:"updatedBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ThemeInput 创建主题的入参；归属字段由 service 写入
type ThemeInput struct {
	Name         string
	Description  *string
	ThemeConfig  json.RawMessage
	GoogleFonts  []string
	Tags         []string
	PreviewImage *string
}

type ThemePatch struct {
	Name         *string
	Description  *string
	ThemeConfig  json.RawMessage // nil = 不修改
	GoogleFonts  *[]string
	Tags         *[]string
	PreviewImage *string
}

// 排序字段
const (
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortName      = "name"
)

// 排序方向
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1_000_000 // 保证 (page-1)*limit 不溢出
)

type ThemeQuery struct {
	Page      int
	Limit     int
	Search    string
	CreatedBy string
	Tags      []string
	SortBy    string
	SortOrder string
}

// Normalize 填充默认值；非法排序字段回落到默认
func (q ThemeQuery) Normalize() ThemeQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.CreatedBy = strings.TrimSpace(q.CreatedBy)
	switch q.SortBy {
	case SortCreatedAt, SortUpdatedAt, SortName:
	default:
		q.SortBy = SortCreatedAt
	}
	switch strings.ToUpper(q.SortOrder) {
	case SortAsc:
		q.SortOrder = SortAsc
	default:
		q.SortOrder = SortDesc
	}
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	q.Tags = tags
	return q
}

func (q ThemeQuery) Offset() int { return (q.Page - 1) * q.Limit }

type ThemePage struct {
	Data  []Theme `json:"data"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// ThemeRepository 所有读取只看 is_active = true 的行；查不到返回 (nil, nil)
type ThemeRepository interface {
	Insert(ctx context.Context, t *Theme) error
	FindByID(ctx context.Context, id string) (*Theme, error)
	FindMany(ctx context.Context, q ThemeQuery) ([]Theme, int64, error)
	Update(ctx context.Context, t *Theme) error
	Deactivate(ctx context.Context, id string) error
}
