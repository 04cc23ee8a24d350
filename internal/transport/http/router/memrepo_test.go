package router

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"theme-catalog/internal/domain"
)

type memUsers struct {
	mu   sync.Mutex
	rows map[string]domain.User
}

func (m *memUsers) Insert(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == u.Email {
			return &pgconn.PgError{Code: "23505", Detail: "Key (email)=(" + u.Email + ") already exists."}
		}
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	out := []domain.User{}
	for _, r := range m.rows {
		r.PasswordHash = ""
		out = append(out, r)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[u.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if u.PasswordHash == "" {
		u.PasswordHash = old.PasswordHash
	}
	m.rows[u.ID] = *u
	return nil
}

type memThemes struct {
	mu   sync.Mutex
	rows map[string]domain.Theme
}

func (m *memThemes) Insert(_ context.Context, t *domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Name == t.Name {
			return &pgconn.PgError{Code: "23505", Detail: "Key (name)=(" + t.Name + ") already exists."}
		}
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memThemes) FindByID(_ context.Context, id string) (*domain.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || !r.IsActive {
		return nil, nil
	}
	return &r, nil
}

func (m *memThemes) FindMany(_ context.Context, q domain.ThemeQuery) ([]domain.Theme, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Theme{}
	for _, r := range m.rows {
		if r.IsActive && (q.Search == "" || strings.Contains(strings.ToLower(r.Name), strings.ToLower(q.Search))) {
			out = append(out, r)
		}
	}
	total := int64(len(out))
	from := min(q.Offset(), len(out))
	to := min(from+q.Limit, len(out))
	return out[from:to], total, nil
}

func (m *memThemes) Update(_ context.Context, t *domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memThemes) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || !r.IsActive {
		return gorm.ErrRecordNotFound
	}
	r.IsActive = false
	m.rows[id] = r
	return nil
}
