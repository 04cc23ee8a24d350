package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"theme-catalog/internal/domain"
)

const (
	maxTags        = 10
	maxTagLen      = 30
	maxFonts       = 10
	maxFontNameLen = 50
)

type CreateThemeRequest struct {
	Name         string          `json:"name" validate:"required,notblank,max=100"`
	Description  *string         `json:"description" validate:"omitempty,max=500"`
	ThemeConfig  json.RawMessage `json:"themeConfig" validate:"required"`
	GoogleFonts  []string        `json:"googleFonts"`
	Tags         []string        `json:"tags"`
	PreviewImage *string         `json:"previewImage" validate:"omitempty,url,max=500"`
}

func (r *CreateThemeRequest) Check() []FieldError {
	var errs []FieldError
	if len(r.ThemeConfig) > 0 {
		errs = append(errs, CheckThemeConfig(r.ThemeConfig)...)
	}
	errs = append(errs, checkList("googleFonts", r.GoogleFonts, maxFonts, maxFontNameLen)...)
	errs = append(errs, checkList("tags", r.Tags, maxTags, maxTagLen)...)
	return errs
}

func (r *CreateThemeRequest) Input() domain.ThemeInput {
	return domain.ThemeInput{
		Name:         r.Name,
		Description:  r.Description,
		ThemeConfig:  r.ThemeConfig,
		GoogleFonts:  r.GoogleFonts,
		Tags:         r.Tags,
		PreviewImage: r.PreviewImage,
	}
}

// UpdateThemeRequest 缺省字段不修改
type UpdateThemeRequest struct {
	Name         *string         `json:"name" validate:"omitempty,notblank,max=100"`
	Description  *string         `json:"description" validate:"omitempty,max=500"`
	ThemeConfig  json.RawMessage `json:"themeConfig"`
	GoogleFonts  *[]string       `json:"googleFonts"`
	Tags         *[]string       `json:"tags"`
	PreviewImage *string         `json:"previewImage" validate:"omitempty,url,max=500"`
}

func (r *UpdateThemeRequest) Check() []FieldError {
	var errs []FieldError
	if r.ThemeConfig != nil {
		errs = append(errs, CheckThemeConfig(r.ThemeConfig)...)
	}
	if r.GoogleFonts != nil {
		errs = append(errs, checkList("googleFonts", *r.GoogleFonts, maxFonts, maxFontNameLen)...)
	}
	if r.Tags != nil {
		errs = append(errs, checkList("tags", *r.Tags, maxTags, maxTagLen)...)
	}
	return errs
}

func (r *UpdateThemeRequest) Patch() domain.ThemePatch {
	return domain.ThemePatch{
		Name:         r.Name,
		Description:  r.Description,
		ThemeConfig:  r.ThemeConfig,
		GoogleFonts:  r.GoogleFonts,
		Tags:         r.Tags,
		PreviewImage: r.PreviewImage,
	}
}

// ListThemesQuery GET /themes 查询参数；tags 支持重复参数或逗号分隔
type ListThemesQuery struct {
	Page      int      `form:"page" validate:"omitempty,min=1,max=1000000"`
	Limit     int      `form:"limit" validate:"omitempty,min=1"`
	Search    string   `form:"search" validate:"max=100"`
	CreatedBy string   `form:"createdBy" validate:"omitempty,uuid"`
	Tags      []string `form:"tags"`
	SortBy    string   `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt name"`
	SortOrder string   `form:"sortOrder" validate:"omitempty,oneof=ASC DESC asc desc"`
}

func (q *ListThemesQuery) Query() domain.ThemeQuery {
	var tags []string
	for _, t := range q.Tags {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	return domain.ThemeQuery{
		Page:      q.Page,
		Limit:     q.Limit,
		Search:    q.Search,
		CreatedBy: q.CreatedBy,
		Tags:      tags,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}

func checkList(field string, list []string, maxItems, maxLen int) []FieldError {
	var errs []FieldError
	if len(list) > maxItems {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must contain at most %d items", field, maxItems)})
	}
	for i, s := range list {
		f := fmt.Sprintf("%s[%d]", field, i)
		switch {
		case strings.TrimSpace(s) == "":
			errs = append(errs, FieldError{Field: f, Message: f + " is required"})
		case utf8.RuneCountInString(s) > maxLen:
			errs = append(errs, FieldError{Field: f, Message: fmt.Sprintf("%s must be at most %d characters", f, maxLen)})
		}
	}
	return errs
}
