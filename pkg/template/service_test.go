package template

import (
	"context"
	"testing"

	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{
	Id:          1,
	Uid:         "stub-uid",
	Username:    "test-user-1",
	DisplayName: "Test User 1",
	Settings:    user.Settings{Timezone: "Europe/Warsaw"},
})

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCategories() map[string]CategoryConfig {
	return map[string]CategoryConfig{
		"Groceries": {Name: "Groceries", MonthlyLimit: money("400.00"), WarningThreshold: 80, IsActive: true},
		"Transport": {Name: "Transport", MonthlyLimit: money("120.00"), IsActive: true},
	}
}

func setup(t *testing.T) (*ServiceImpl, *RepositoryStub, *event_bus.EventBus, func()) {
	repo := NewRepositoryStub()
	bus := event_bus.NewEventBus()
	service := NewService(repo, bus)
	return service, repo, bus, func() {
		t.Log("Teardown after test")
		repo.Reset()
	}
}

func TestServiceImpl_Save(t *testing.T) {
	t.Run("should create the first version as active", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Save(ctx, testCategories(), GlobalSettings{Currency: "EUR"})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, created.Version)
		assert.True(t, created.IsActive)
		assert.Len(t, created.Categories, 2)
	})

	t.Run("should bump the version and deactivate the predecessor", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Save(ctx, testCategories(), GlobalSettings{Currency: "EUR"})
		require.NoError(t, err)

		// when
		categories := testCategories()
		cfg := categories["Groceries"]
		cfg.MonthlyLimit = money("450.00")
		categories["Groceries"] = cfg
		second, err := service.Save(ctx, categories, GlobalSettings{Currency: "EUR"})

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, second.Version)

		versions, err := service.ListVersions(ctx)
		require.NoError(t, err)
		require.Len(t, versions, 2)

		active, err := service.GetActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, active.Version)
		assert.True(t, active.Categories["Groceries"].MonthlyLimit.Equal(money("450.00")))
	})

	t.Run("should keep historical versions unchanged", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Save(ctx, testCategories(), GlobalSettings{Currency: "EUR"})
		require.NoError(t, err)
		categories := testCategories()
		delete(categories, "Transport")
		_, err = service.Save(ctx, categories, GlobalSettings{Currency: "EUR"})
		require.NoError(t, err)

		// when
		versions, err := service.ListVersions(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, versions, 2)
		var v1 Template
		for _, v := range versions {
			if v.Version == 1 {
				v1 = v
			}
		}
		assert.Len(t, v1.Categories, 2, "the superseded version still holds its categories")
		assert.False(t, v1.IsActive)
	})

	t.Run("should announce removed categories to subscribers", func(t *testing.T) {
		service, _, bus, teardown := setup(t)
		defer teardown()

		var removed [][]string
		event_bus.SubscribeTyped(bus, event_bus.TemplateVersionCreatedType, func(e event_bus.EventT[event_bus.TemplateVersionCreated]) error {
			removed = append(removed, e.Data.RemovedCategories)
			return nil
		})

		// given
		_, err := service.Save(ctx, testCategories(), GlobalSettings{Currency: "EUR"})
		require.NoError(t, err)

		// when
		categories := testCategories()
		delete(categories, "Transport")
		_, err = service.Save(ctx, categories, GlobalSettings{Currency: "EUR"})

		// then
		require.NoError(t, err)
		require.Len(t, removed, 2)
		assert.Empty(t, removed[0])
		assert.Equal(t, []string{"Transport"}, removed[1])
	})

	t.Run("should reject invalid categories", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		invalid := []map[string]CategoryConfig{
			{"": {Name: "", MonthlyLimit: money("10.00")}},
			{"A": {Name: "B", MonthlyLimit: money("10.00")}},
			{"A": {Name: "A", MonthlyLimit: money("-10.00")}},
			{"A": {Name: "A", MonthlyLimit: money("10.00"), WarningThreshold: 150}},
		}

		for _, categories := range invalid {
			_, err := service.Save(ctx, categories, GlobalSettings{Currency: "EUR"})
			assert.ErrorIs(t, err, ErrInvalidCategory)
		}
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.Save(context.Background(), testCategories(), GlobalSettings{Currency: "EUR"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_GetActive(t *testing.T) {
	t.Run("should fail before any template was saved", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.GetActive(ctx)

		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestTemplate_ActiveTotal(t *testing.T) {
	tmpl := Template{
		Categories: map[string]CategoryConfig{
			"A": {Name: "A", MonthlyLimit: money("100.00"), IsActive: true},
			"B": {Name: "B", MonthlyLimit: money("50.00"), IsActive: true},
			"C": {Name: "C", MonthlyLimit: money("999.00"), IsActive: false},
		},
	}

	assert.True(t, tmpl.ActiveTotal().Equal(money("150.00")))
}
