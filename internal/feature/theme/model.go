package theme

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"theme-catalog/internal/domain"
	"theme-catalog/internal/feature/user"
)

// ThemeModel themes 表映射
type ThemeModel struct {
	ID           string          `gorm:"primaryKey;type:uuid"`
	Name         string          `gorm:"uniqueIndex;size:100;not null"`
	Description  *string         `gorm:"size:500"`
	ThemeConfig  json.RawMessage `gorm:"type:jsonb;not null"`
	GoogleFonts  pq.StringArray  `gorm:"type:text[]"`
	Tags         pq.StringArray  `gorm:"type:text[]"`
	PreviewImage *string         `gorm:"size:500"`
	IsActive     bool            `gorm:"not null;default:true;index"`
	CreatedByID  string          `gorm:"type:uuid;not null;index"`
	UpdatedByID  string          `gorm:"type:uuid;not null"`

	CreatedBy *user.UserModel `gorm:"foreignKey:CreatedByID"`
	UpdatedBy *user.UserModel `gorm:"foreignKey:UpdatedByID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ThemeModel) TableName() string { return "themes" }

// 列名白名单：对外排序字段 -> 列
var sortColumns = map[string]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
	domain.SortName:      "name",
}

// SortColumn 未知字段回落到 created_at
func SortColumn(key string) string {
	if c, ok := sortColumns[key]; ok {
		return c
	}
	return "created_at"
}

// WritableColumns Update 时允许写入的列；created_by_id 永不覆盖
var WritableColumns = []string{
	"name", "description", "theme_config", "google_fonts", "tags",
	"preview_image", "updated_by_id", "updated_at",
}

func FromDomain(t *domain.Theme) *ThemeModel {
	return &ThemeModel{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		ThemeConfig:  t.ThemeConfig,
		GoogleFonts:  pq.StringArray(t.GoogleFonts),
		Tags:         pq.StringArray(t.Tags),
		PreviewImage: t.PreviewImage,
		IsActive:     t.IsActive,
		CreatedByID:  t.CreatedByID,
		UpdatedByID:  t.UpdatedByID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (m *ThemeModel) ToDomain() *domain.Theme {
	t := &domain.Theme{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		ThemeConfig:  m.ThemeConfig,
		GoogleFonts:  nonNil(m.GoogleFonts),
		Tags:         nonNil(m.Tags),
		PreviewImage: m.PreviewImage,
		IsActive:     m.IsActive,
		CreatedByID:  m.CreatedByID,
		UpdatedByID:  m.UpdatedByID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.CreatedBy != nil {
		p := m.CreatedBy.ToDomain().Public()
		t.CreatedBy = &p
	}
	if m.UpdatedBy != nil {
		p := m.UpdatedBy.ToDomain().Public()
		t.UpdatedBy = &p
	}
	return t
}

func nonNil(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}
