package adjustment

import (
	"context"
	"testing"
	"time"

	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/internal/utils"
	"github.com/centavo/centavo/pkg/template"
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

type templateReaderStub struct {
	tmpl template.Template
	err  error
}

func (s *templateReaderStub) GetActive(ctx context.Context) (template.Template, error) {
	if s.err != nil {
		return template.Template{}, s.err
	}
	return s.tmpl, nil
}

// mid-September 2026
var clock = &utils.MockClock{FixedNow: time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC)}

func setup(t *testing.T) (*ServiceImpl, *RepositoryStub, *templateReaderStub, func()) {
	repo := NewRepositoryStub()
	templates := &templateReaderStub{
		tmpl: template.Template{
			Id:       1,
			Version:  1,
			IsActive: true,
			Categories: map[string]template.CategoryConfig{
				"Groceries": {Name: "Groceries", MonthlyLimit: money("400.00"), IsActive: true},
			},
			Settings: template.GlobalSettings{Currency: "EUR"},
		},
	}
	service := NewService(repo, templates, clock, event_bus.NewEventBus())
	return service, repo, templates, func() {
		t.Log("Teardown after test")
		repo.Reset()
	}
}

func TestServiceImpl_Schedule(t *testing.T) {
	t.Run("should target the month after the current one", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		// when
		adj, err := service.Schedule(ctx, "Groceries", money("500.00"), "holiday season")

		// then
		require.NoError(t, err)
		assert.Equal(t, 2026, adj.TargetYear)
		assert.Equal(t, 10, adj.TargetMonth)
		assert.True(t, adj.CurrentLimit.Equal(money("400.00")))
		assert.True(t, adj.NewLimit.Equal(money("500.00")))
		assert.NotEmpty(t, adj.Id)
	})

	t.Run("should wrap December into January", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		clock.SetNow(time.Date(2026, time.December, 20, 10, 0, 0, 0, time.UTC))
		defer clock.SetNow(time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC))

		adj, err := service.Schedule(ctx, "Groceries", money("500.00"), "")

		require.NoError(t, err)
		assert.Equal(t, 2027, adj.TargetYear)
		assert.Equal(t, 1, adj.TargetMonth)
	})

	t.Run("should reject a category missing from the active template", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.Schedule(ctx, "Unicorns", money("10.00"), "")

		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("should reject scheduling without a template", func(t *testing.T) {
		service, _, templates, teardown := setup(t)
		defer teardown()

		templates.err = template.ErrTemplateNotFound

		_, err := service.Schedule(ctx, "Groceries", money("10.00"), "")

		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("should reject negative limits", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.Schedule(ctx, "Groceries", money("-5.00"), "")

		assert.Error(t, err)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.Schedule(context.Background(), "Groceries", money("10.00"), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_ListPending(t *testing.T) {
	t.Run("should list only adjustments for the requested month", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		// given one for October and one for January
		_, err := service.Schedule(ctx, "Groceries", money("500.00"), "")
		require.NoError(t, err)
		clock.SetNow(time.Date(2026, time.December, 20, 10, 0, 0, 0, time.UTC))
		_, err = service.Schedule(ctx, "Groceries", money("600.00"), "")
		require.NoError(t, err)
		clock.SetNow(time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC))

		// when
		october, err := service.ListPending(ctx, 2026, 10)
		require.NoError(t, err)
		january, err := service.ListPending(ctx, 2027, 1)
		require.NoError(t, err)

		// then
		assert.Len(t, october, 1)
		assert.Len(t, january, 1)
		assert.True(t, october[0].NewLimit.Equal(money("500.00")))
	})
}

func TestServiceImpl_Cancel(t *testing.T) {
	t.Run("should remove a pending adjustment", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		adj, err := service.Schedule(ctx, "Groceries", money("500.00"), "")
		require.NoError(t, err)

		err = service.Cancel(ctx, adj.Id)

		assert.NoError(t, err)
		pending, _ := service.ListPending(ctx, adj.TargetYear, adj.TargetMonth)
		assert.Empty(t, pending)
	})

	t.Run("should fail for an unknown id", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		err := service.Cancel(ctx, "nope")

		assert.ErrorIs(t, err, ErrAdjustmentNotFound)
	})
}

func TestServiceImpl_Consume(t *testing.T) {
	t.Run("should delete applied adjustments and ignore missing ids", func(t *testing.T) {
		service, _, _, teardown := setup(t)
		defer teardown()

		adj, err := service.Schedule(ctx, "Groceries", money("500.00"), "")
		require.NoError(t, err)

		err = service.Consume(ctx, []string{adj.Id, "already-gone"})

		assert.NoError(t, err)
		pending, _ := service.ListPending(ctx, adj.TargetYear, adj.TargetMonth)
		assert.Empty(t, pending)
	})
}
