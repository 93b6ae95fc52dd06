package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/pkg/adjustment"
	"github.com/centavo/centavo/pkg/template"
	"github.com/centavo/centavo/pkg/user"
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

type adjustmentSourceStub struct {
	pending  []adjustment.ScheduledAdjustment
	consumed []string
}

func (s *adjustmentSourceStub) ListPending(ctx context.Context, year int, month int) ([]adjustment.ScheduledAdjustment, error) {
	var matching []adjustment.ScheduledAdjustment
	for _, adj := range s.pending {
		if adj.TargetsMonth(year, month) {
			matching = append(matching, adj)
		}
	}
	return matching, nil
}

func (s *adjustmentSourceStub) Consume(ctx context.Context, ids []string) error {
	s.consumed = append(s.consumed, ids...)
	return nil
}

func setup(t *testing.T) (*ServiceImpl, *RepositoryStub, *templateReaderStub, *adjustmentSourceStub, func()) {
	repo := NewRepositoryStub()
	templates := &templateReaderStub{tmpl: testTemplate()}
	adjustments := &adjustmentSourceStub{}
	service := NewService(repo, templates, adjustments, event_bus.NewEventBus())
	return service, repo, templates, adjustments, func() {
		t.Log("Teardown after test")
		repo.Reset()
	}
}

func TestServiceImpl_GetForMonth(t *testing.T) {
	t.Run("should materialize the month from the template on first access", func(t *testing.T) {
		service, repo, _, _, teardown := setup(t)
		defer teardown()

		// when
		snap, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})

		// then
		require.NoError(t, err)
		assert.Len(t, snap.Categories, 2)
		assert.True(t, snap.Categories["Groceries"].MonthlyLimit.Equal(money("400.00")))
		assert.Equal(t, 0, snap.AdjustmentCount)

		// and the month is persisted
		stored, err := repo.Get(ctx, 1, Month{Year: 2026, Month: 9})
		require.NoError(t, err)
		assert.Len(t, stored.Categories, 2)
	})

	t.Run("should apply and consume pending adjustments at creation", func(t *testing.T) {
		service, _, _, adjustments, teardown := setup(t)
		defer teardown()

		// given
		adjustments.pending = []adjustment.ScheduledAdjustment{
			{
				Id:           "adj-1",
				CategoryName: "Groceries",
				NewLimit:     money("500.00"),
				TargetYear:   2026,
				TargetMonth:  9,
				CreatedAt:    time.Now(),
			},
		}

		// when
		snap, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})

		// then
		require.NoError(t, err)
		assert.True(t, snap.Categories["Groceries"].MonthlyLimit.Equal(money("500.00")))
		assert.Equal(t, 1, snap.AdjustmentCount)
		assert.Equal(t, []string{"adj-1"}, adjustments.consumed)
	})

	t.Run("should silently drop adjustments for categories gone from the template", func(t *testing.T) {
		service, _, _, adjustments, teardown := setup(t)
		defer teardown()

		// given
		adjustments.pending = []adjustment.ScheduledAdjustment{
			{Id: "adj-orphan", CategoryName: "Dining", NewLimit: money("99.00"), TargetYear: 2026, TargetMonth: 9},
		}

		// when
		snap, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})

		// then
		require.NoError(t, err)
		_, present := snap.Categories["Dining"]
		assert.False(t, present)
		assert.Equal(t, 0, snap.AdjustmentCount)
		assert.Equal(t, []string{"adj-orphan"}, adjustments.consumed, "orphaned adjustments are still consumed")
	})

	t.Run("should return an empty month when no template exists", func(t *testing.T) {
		service, repo, templates, _, teardown := setup(t)
		defer teardown()

		// given
		templates.err = template.ErrTemplateNotFound

		// when
		snap, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})

		// then
		require.NoError(t, err)
		assert.Empty(t, snap.Categories)

		// and nothing is persisted
		_, err = repo.Get(ctx, 1, Month{Year: 2026, Month: 9})
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("should reconcile an existing month on read without persisting", func(t *testing.T) {
		service, repo, templates, _, teardown := setup(t)
		defer teardown()

		// given a month created from the current template
		_, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})
		require.NoError(t, err)

		// and a template change removing Transport
		changed := testTemplate()
		delete(changed.Categories, "Transport")
		templates.tmpl = changed

		// when
		snap, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})

		// then the read reflects the removal
		require.NoError(t, err)
		assert.False(t, snap.Categories["Transport"].IsActive)

		// but the stored month is untouched
		stored, err := repo.Get(ctx, 1, Month{Year: 2026, Month: 9})
		require.NoError(t, err)
		assert.True(t, stored.Categories["Transport"].IsActive)
	})

	t.Run("should not pick up template categories added after creation", func(t *testing.T) {
		service, _, templates, _, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})
		require.NoError(t, err)

		grown := testTemplate()
		grown.Categories["Hobby"] = template.CategoryConfig{Name: "Hobby", MonthlyLimit: money("60.00"), IsActive: true}
		templates.tmpl = grown

		// when
		snap, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})

		// then
		require.NoError(t, err)
		_, present := snap.Categories["Hobby"]
		assert.False(t, present)

		// while a fresh month does include it
		next, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 10})
		require.NoError(t, err)
		_, present = next.Categories["Hobby"]
		assert.True(t, present)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.GetForMonth(context.Background(), Month{Year: 2026, Month: 9})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_AdjustCategoryLimit(t *testing.T) {
	t.Run("should change the limit and count the adjustment", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})
		require.NoError(t, err)

		// when
		snap, err := service.AdjustCategoryLimit(ctx, Month{Year: 2026, Month: 9}, "Groceries", money("350.00"))

		// then
		require.NoError(t, err)
		assert.True(t, snap.Categories["Groceries"].MonthlyLimit.Equal(money("350.00")))
		assert.Equal(t, 1, snap.AdjustmentCount)
	})

	t.Run("should reject changes on a missing month", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.AdjustCategoryLimit(ctx, Month{Year: 2026, Month: 9}, "Groceries", money("350.00"))

		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("should reject changes on an unknown category", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})
		require.NoError(t, err)

		_, err = service.AdjustCategoryLimit(ctx, Month{Year: 2026, Month: 9}, "Nope", money("10.00"))

		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("should reject changes on a locked month", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})
		require.NoError(t, err)
		_, err = service.SetLocked(ctx, Month{Year: 2026, Month: 9}, true)
		require.NoError(t, err)

		// when
		_, err = service.AdjustCategoryLimit(ctx, Month{Year: 2026, Month: 9}, "Groceries", money("350.00"))

		// then
		assert.ErrorIs(t, err, ErrSnapshotLocked)
	})

	t.Run("should reject negative limits", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.AdjustCategoryLimit(ctx, Month{Year: 2026, Month: 9}, "Groceries", money("-1.00"))

		assert.Error(t, err)
	})
}

func TestServiceImpl_SetLocked(t *testing.T) {
	t.Run("should lock and unlock a month", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})
		require.NoError(t, err)

		// when
		locked, err := service.SetLocked(ctx, Month{Year: 2026, Month: 9}, true)
		require.NoError(t, err)
		unlocked, err := service.SetLocked(ctx, Month{Year: 2026, Month: 9}, false)
		require.NoError(t, err)

		// then
		assert.True(t, locked.IsLocked)
		assert.False(t, unlocked.IsLocked)
	})

	t.Run("should fail on a missing month", func(t *testing.T) {
		service, _, _, _, teardown := setup(t)
		defer teardown()

		_, err := service.SetLocked(ctx, Month{Year: 2026, Month: 9}, true)

		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})
}

// events published at creation carry the applied adjustment count
func TestServiceImpl_PublishesSnapshotCreated(t *testing.T) {
	repo := NewRepositoryStub()
	templates := &templateReaderStub{tmpl: testTemplate()}
	adjustments := &adjustmentSourceStub{
		pending: []adjustment.ScheduledAdjustment{
			{Id: "adj-1", CategoryName: "Groceries", NewLimit: money("500.00"), TargetYear: 2026, TargetMonth: 9},
		},
	}
	bus := event_bus.NewEventBus()
	var received []event_bus.SnapshotCreated
	event_bus.SubscribeTyped(bus, event_bus.SnapshotCreatedType, func(e event_bus.EventT[event_bus.SnapshotCreated]) error {
		received = append(received, e.Data)
		return nil
	})
	service := NewService(repo, templates, adjustments, bus)

	_, err := service.GetForMonth(ctx, Month{Year: 2026, Month: 9})

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, 1, received[0].AppliedCount)
	assert.Equal(t, 2, received[0].CategoriesSeeded)
	assert.Equal(t, 2026, received[0].Year)
}
