//go:build integration

package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"theme-catalog/internal/core/database"
	"theme-catalog/internal/domain"
	"theme-catalog/pkg/utils"
)

// 需要 docker：go test -tags integration ./internal/repo/...
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("themes"),
		postgres.WithUsername("app"),
		postgres.WithPassword("app"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewGorm(database.Opts{DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetimeMin: 5, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, r *UserRepo, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Email: email, PasswordHash: "x", FirstName: "F", LastName: "L", IsActive: true}
	require.NoError(t, r.Insert(context.Background(), u))
	return u
}

func TestIntegration_Themes(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	themes := NewThemeRepo(db)

	alice := seedUser(t, users, "alice@x.com")
	bob := seedUser(t, users, "bob@x.com")

	for i := 0; i < 15; i++ {
		owner := alice
		tags := []string{"light"}
		if i%3 == 0 {
			owner = bob
			tags = []string{"dark", "minimal"}
		}
		th := &domain.Theme{
			ID:          utils.NewID(),
			Name:        fmt.Sprintf("Theme %02d", i),
			ThemeConfig: []byte(`{"colors":{"primary":"#111"}}`),
			GoogleFonts: []string{"Inter"},
			Tags:        tags,
			CreatedByID: owner.ID,
			UpdatedByID: owner.ID,
		}
		require.NoError(t, themes.Insert(ctx, th))
	}

	t.Run("pagination", func(t *testing.T) {
		q := domain.ThemeQuery{Page: 2, Limit: 10}.Normalize()
		items, total, err := themes.FindMany(ctx, q)
		require.NoError(t, err)
		assert.EqualValues(t, 15, total)
		assert.Len(t, items, 5)
		require.NotNil(t, items[0].CreatedBy)
	})

	t.Run("tag overlap", func(t *testing.T) {
		q := domain.ThemeQuery{Tags: []string{"minimal", "nope"}}.Normalize()
		_, total, err := themes.FindMany(ctx, q)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
	})

	t.Run("case-insensitive search", func(t *testing.T) {
		q := domain.ThemeQuery{Search: "theme 1"}.Normalize()
		_, total, err := themes.FindMany(ctx, q)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total) // 10..14
	})

	t.Run("created by", func(t *testing.T) {
		q := domain.ThemeQuery{CreatedBy: bob.ID, SortBy: domain.SortName, SortOrder: "asc"}.Normalize()
		items, total, err := themes.FindMany(ctx, q)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.Equal(t, "Theme 00", items[0].Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := themes.Insert(ctx, &domain.Theme{
			ID: utils.NewID(), Name: "Theme 00", ThemeConfig: []byte(`{}`),
			CreatedByID: alice.ID, UpdatedByID: alice.ID,
		})
		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr))
		assert.Equal(t, "23505", pgErr.Code)
	})

	t.Run("soft delete", func(t *testing.T) {
		q := domain.ThemeQuery{Limit: 1}.Normalize()
		items, _, err := themes.FindMany(ctx, q)
		require.NoError(t, err)
		id := items[0].ID

		require.NoError(t, themes.Deactivate(ctx, id))
		got, err := themes.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)

		var active bool
		require.NoError(t, db.Raw("SELECT is_active FROM themes WHERE id = ?", id).Scan(&active).Error)
		assert.False(t, active)

		assert.True(t, errors.Is(themes.Deactivate(ctx, id), gorm.ErrRecordNotFound))
	})
}
