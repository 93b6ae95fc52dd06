package test_utils

import (
	"context"

	"github.com/centavo/centavo/pkg/user"
)

func TestUser() user.User {
	return user.User{
		Id:          123,
		Uid:         "11111111-2222-3333-4444-555555555555",
		Username:    "test_user",
		DisplayName: "Test User",
		Settings: user.Settings{
			Timezone: "Europe/Warsaw",
		},
	}
}

// ContextWithTestUser returns a context carrying the standard test user.
func ContextWithTestUser(ctx context.Context) context.Context {
	return user.WithUser(ctx, TestUser())
}
