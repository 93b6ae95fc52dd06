package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*UserServiceImpl, *StubRepo, func()) {
	repo := NewStubRepo()
	service := NewUserService(repo)
	return service, repo, func() {
		t.Log("Teardown after test")
		repo.Reset()
	}
}

func TestUserServiceImpl_CreateUser(t *testing.T) {
	t.Run("should generate a uid when missing", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		created, err := service.CreateUser(context.Background(), User{Username: "maria", DisplayName: "Maria"})

		require.NoError(t, err)
		assert.NotEmpty(t, created.Uid)
		assert.NotZero(t, created.Id)
	})

	t.Run("should keep an explicit uid", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		created, err := service.CreateUser(context.Background(), User{Uid: "fixed-uid", Username: "maria"})

		require.NoError(t, err)
		assert.Equal(t, "fixed-uid", created.Uid)
	})
}

func TestUserServiceImpl_GetCurrentUser(t *testing.T) {
	t.Run("should resolve the user carried by the context", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		created, err := service.CreateUser(context.Background(), User{Username: "maria"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		current, err := service.GetCurrentUser(ctx)

		require.NoError(t, err)
		assert.Equal(t, created.Id, current.Id)
		assert.Equal(t, "maria", current.Username)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		_, err := service.GetCurrentUser(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestUserServiceImpl_IsUsernameAvailable(t *testing.T) {
	service, _, teardown := setup(t)
	defer teardown()

	_, err := service.CreateUser(context.Background(), User{Username: "maria"})
	require.NoError(t, err)

	taken, err := service.IsUsernameAvailable(context.Background(), "maria")
	require.NoError(t, err)
	free, err := service.IsUsernameAvailable(context.Background(), "ana")
	require.NoError(t, err)

	assert.False(t, taken)
	assert.True(t, free)
}
