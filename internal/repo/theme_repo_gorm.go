package repo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"theme-catalog/internal/domain"
	"theme-catalog/internal/feature/theme"
	"theme-catalog/internal/feature/user"
)

type ThemeRepo struct{ db *gorm.DB }

func NewThemeRepo(db *gorm.DB) *ThemeRepo { return &ThemeRepo{db: db} }

var _ domain.ThemeRepository = (*ThemeRepo)(nil)

// active 软删过滤：所有读路径都要带
func active(db *gorm.DB) *gorm.DB { return db.Where("themes.is_active = ?", true) }

// 预加载创建人/更新人时只取公开列
func publicUser(db *gorm.DB) *gorm.DB { return db.Select(user.PublicColumns) }

func (r *ThemeRepo) Insert(ctx context.Context, t *domain.Theme) error {
	m := theme.FromDomain(t)
	m.IsActive = true
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	t.IsActive = true
	t.CreatedAt, t.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *ThemeRepo) FindByID(ctx context.Context, id string) (*domain.Theme, error) {
	var m theme.ThemeModel
	err := active(r.db.WithContext(ctx)).Where("themes.id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindMany q 需已 Normalize；total 为分页前的匹配数
func (r *ThemeRepo) FindMany(ctx context.Context, q domain.ThemeQuery) ([]domain.Theme, int64, error) {
	// 条件顺序固定：is_active 在最前
	tx := active(r.db.WithContext(ctx).Model(&theme.ThemeModel{}))

	if q.Search != "" {
		like := "%" + escapeLike(q.Search) + "%"
		tx = tx.Where("(themes.name ILIKE ? OR themes.description ILIKE ?)", like, like)
	}
	if q.CreatedBy != "" {
		tx = tx.Where("themes.created_by_id = ?", q.CreatedBy)
	}
	if len(q.Tags) > 0 {
		// 集合重叠：任一 tag 命中即可
		tx = tx.Where("themes.tags && ?", pq.StringArray(q.Tags))
	}

	// Count 和 Find 各自克隆语句
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Theme{}, 0, nil
	}

	var ms []theme.ThemeModel
	err := tx.
		Preload("CreatedBy", publicUser).
		Preload("UpdatedBy", publicUser).
		Order(clause.OrderByColumn{
			Column: clause.Column{Table: "themes", Name: theme.SortColumn(q.SortBy)},
			Desc:   q.SortOrder == domain.SortDesc,
		}).
		// 次级排序保证分页稳定
		Order(clause.OrderByColumn{Column: clause.Column{Table: "themes", Name: "id"}}).
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Theme, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, total, nil
}

// Update 不写 created_by_id / is_active
func (r *ThemeRepo) Update(ctx context.Context, t *domain.Theme) error {
	m := theme.FromDomain(t)
	res := active(r.db.WithContext(ctx).Model(&theme.ThemeModel{ID: t.ID})).
		Select(theme.WritableColumns).
		Omit(clause.Associations).
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ThemeRepo) Deactivate(ctx context.Context, id string) error {
	res := active(r.db.WithContext(ctx).Model(&theme.ThemeModel{})).
		Where("themes.id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
