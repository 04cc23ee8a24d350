package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"theme-catalog/internal/domain"
)

// memUsers 内存版 UserRepository，email 唯一冲突时返回 PgError
type memUsers struct {
	mu   sync.Mutex
	rows map[string]domain.User
	err  error
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]domain.User{}} }

func (m *memUsers) Insert(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, r := range m.rows {
		if r.Email == u.Email {
			return &pgconn.PgError{Code: "23505", Detail: "Key (email)=(" + u.Email + ") already exists.", ConstraintName: "users_email_key"}
		}
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	r.PasswordHash = ""
	return &r, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string, withPassword bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.Email == email {
			if !withPassword {
				r.PasswordHash = ""
			}
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindAll(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.User, 0, len(m.rows))
	for _, r := range m.rows {
		r.PasswordHash = ""
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	old, ok := m.rows[u.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for id, r := range m.rows {
		if id != u.ID && r.Email == u.Email {
			return &pgconn.PgError{Code: "23505", Detail: "Key (email)=(" + u.Email + ") already exists."}
		}
	}
	next := *u
	if next.PasswordHash == "" {
		next.PasswordHash = old.PasswordHash
	}
	m.rows[u.ID] = next
	return nil
}

// memThemes 内存版 ThemeRepository；只实现 FindMany 用到的过滤
type memThemes struct {
	mu        sync.Mutex
	rows      map[string]domain.Theme
	err       error
	lastQuery domain.ThemeQuery
	updates   int
}

func newMemThemes() *memThemes { return &memThemes{rows: map[string]domain.Theme{}} }

func (m *memThemes) Insert(_ context.Context, t *domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, r := range m.rows {
		if r.Name == t.Name {
			return &pgconn.PgError{Code: "23505", Detail: "Key (name)=(" + t.Name + ") already exists.", ConstraintName: "themes_name_key"}
		}
	}
	t.IsActive = true
	m.rows[t.ID] = *t
	return nil
}

func (m *memThemes) FindByID(_ context.Context, id string) (*domain.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok || !r.IsActive {
		return nil, nil
	}
	return &r, nil
}

func (m *memThemes) FindMany(_ context.Context, q domain.ThemeQuery) ([]domain.Theme, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	if m.err != nil {
		return nil, 0, m.err
	}
	var all []domain.Theme
	for _, r := range m.rows {
		if !r.IsActive {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.CreatedBy != "" && r.CreatedByID != q.CreatedBy {
			continue
		}
		if len(q.Tags) > 0 && !overlaps(r.Tags, q.Tags) {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	from := min(q.Offset(), len(all))
	to := min(from+q.Limit, len(all))
	return append([]domain.Theme{}, all[from:to]...), total, nil
}

func (m *memThemes) Update(_ context.Context, t *domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	old, ok := m.rows[t.ID]
	if !ok || !old.IsActive {
		return gorm.ErrRecordNotFound
	}
	for id, r := range m.rows {
		if id != t.ID && r.Name == t.Name {
			return &pgconn.PgError{Code: "23505", Detail: "Key (name)=(" + t.Name + ") already exists."}
		}
	}
	next := *t
	next.CreatedByID = old.CreatedByID
	next.IsActive = true
	m.rows[t.ID] = next
	m.updates++
	return nil
}

func (m *memThemes) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r, ok := m.rows[id]
	if !ok || !r.IsActive {
		return gorm.ErrRecordNotFound
	}
	r.IsActive = false
	m.rows[id] = r
	return nil
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
