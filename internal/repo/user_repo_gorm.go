package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"theme-catalog/internal/domain"
	"theme-catalog/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Select(user.PublicColumns).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByEmail withPassword=false 时不读取 password_hash
func (r *UserRepo) FindByEmail(ctx context.Context, email string, withPassword bool) (*domain.User, error) {
	q := r.db.WithContext(ctx)
	if !withPassword {
		q = q.Select(user.PublicColumns)
	}
	var m user.UserModel
	err := q.Where("email = ?", email).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Select(user.PublicColumns).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

// Update 只写资料列；PasswordHash 为空时不动密码
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	cols := []string{"email", "first_name", "last_name", "is_active", "updated_at"}
	if u.PasswordHash != "" {
		cols = append(cols, "password_hash")
	}
	m := user.FromDomain(u)
	res := r.db.WithContext(ctx).Model(&user.UserModel{ID: u.ID}).Select(cols).Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
