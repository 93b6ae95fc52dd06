package template

import (
	"context"
	"os"
	"testing"

	"github.com/centavo/centavo/internal/test_utils"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repository, int) {
	testCtx := context.Background()
	db := openDb()
	repository := NewRepository(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(testCtx)
		require.NoError(t, err)
	})

	userId := createTestUser(t, testCtx, db)
	return testCtx, repository, userId
}

func createTestUser(t *testing.T, ctx context.Context, db *pgxpool.Pool) int {
	t.Helper()
	var userId int
	err := db.QueryRow(ctx,
		`INSERT INTO app_user (uid, username, display_name, timezone)
		 VALUES ('test-uid', 'test_user', 'Test User', 'Europe/Warsaw')
		 RETURNING id`,
	).Scan(&userId)
	require.NoError(t, err)
	return userId
}

func TestRepositoryImpl_CreateVersion(t *testing.T) {
	t.Run("should store the first version with its categories", func(t *testing.T) {
		// given
		testCtx, repo, userId := setupTestRepository(t)

		// when
		created, err := repo.CreateVersion(testCtx, userId, Template{
			Categories: testCategories(),
			Settings:   GlobalSettings{Currency: "EUR", NotifyOverspend: true},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, created.Version)
		assert.True(t, created.IsActive)
		assert.NotZero(t, created.Id)
		assert.False(t, created.CreatedAt.IsZero())

		stored, err := repo.GetActive(testCtx, userId)
		require.NoError(t, err)
		require.Len(t, stored.Categories, 2)
		assert.True(t, stored.Categories["Groceries"].MonthlyLimit.Equal(money("400.00")))
		assert.Equal(t, 80, stored.Categories["Groceries"].WarningThreshold)
		assert.True(t, stored.Settings.NotifyOverspend)
	})

	t.Run("should deactivate the previous version", func(t *testing.T) {
		// given
		testCtx, repo, userId := setupTestRepository(t)
		_, err := repo.CreateVersion(testCtx, userId, Template{Categories: testCategories(), Settings: GlobalSettings{Currency: "EUR"}})
		require.NoError(t, err)

		// when
		second, err := repo.CreateVersion(testCtx, userId, Template{Categories: testCategories(), Settings: GlobalSettings{Currency: "EUR"}})

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, second.Version)

		versions, err := repo.ListVersions(testCtx, userId)
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 2, versions[0].Version)
		assert.True(t, versions[0].IsActive)
		assert.False(t, versions[1].IsActive)
	})
}

func TestRepositoryImpl_GetActive(t *testing.T) {
	t.Run("should report missing template", func(t *testing.T) {
		testCtx, repo, userId := setupTestRepository(t)

		_, err := repo.GetActive(testCtx, userId)

		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("should not leak templates across users", func(t *testing.T) {
		// given
		testCtx, repo, userId := setupTestRepository(t)
		_, err := repo.CreateVersion(testCtx, userId, Template{Categories: testCategories(), Settings: GlobalSettings{Currency: "EUR"}})
		require.NoError(t, err)

		// when
		_, err = repo.GetActive(testCtx, userId+1)

		// then
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}
