package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Tomas5220/f1-api/internal/cache"
	"github.com/Tomas5220/f1-api/internal/models"
)

func TestUserServiceCreate(t *testing.T) {
	tests := []struct {
		name          string
		req           CreateUserRequest
		usernameTaken bool
		emailTaken    bool
		wantMessage   string
	}{
		{
			name:        "missing name",
			req:         CreateUserRequest{Username: "tifosi", Email: "t@example.com"},
			wantMessage: msgIncomplete,
		},
		{
			name:        "malformed email",
			req:         CreateUserRequest{Username: "tifosi", Name: "Tifo", Email: "not-an-email"},
			wantMessage: msgInvalidEmail,
		},
		{
			name:        "email taken",
			req:         CreateUserRequest{Username: "tifosi", Name: "Tifo", Email: "t@example.com"},
			emailTaken:  true,
			wantMessage: msgEmailTaken,
		},
		{
			name:          "username taken",
			req:           CreateUserRequest{Username: "tifosi", Name: "Tifo", Email: "t@example.com"},
			usernameTaken: true,
			wantMessage:   msgUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			repo.On("FindConflicts", mock.Anything, tt.req.Username, tt.req.Email).
				Return(tt.usernameTaken, tt.emailTaken, nil).Maybe()
			svc := NewUserService(repo, newTestStore(), quietLogger())

			_, err := svc.Create(context.Background(), &tt.req)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMessage, verr.Message)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUserServiceCreateInvalidatesList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.Set(ctx, cache.UsersAllKey, []*models.User{}, 0))

	repo := new(MockUserRepository)
	repo.On("FindConflicts", mock.Anything, "tifosi", "t@example.com").Return(false, false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	svc := NewUserService(repo, store, quietLogger())

	user, err := svc.Create(ctx, &CreateUserRequest{Username: "tifosi", Name: "Tifo", Email: "t@example.com"})
	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero())
	assert.Equal(t, 0, store.ItemCount())
}

func TestUserServiceListCachesAndReportsEmpty(t *testing.T) {
	ctx := context.Background()

	repo := new(MockUserRepository)
	repo.On("List", mock.Anything).Return([]*models.User{{Username: "tifosi"}}, nil).Once()
	svc := NewUserService(repo, newTestStore(), quietLogger())

	for i := 0; i < 2; i++ {
		users, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	}
	repo.AssertNumberOfCalls(t, "List", 1)

	empty := new(MockUserRepository)
	empty.On("List", mock.Anything).Return([]*models.User{}, nil)
	_, err := NewUserService(empty, newTestStore(), quietLogger()).List(ctx)
	var nerr *models.NotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, msgNoUsers, nerr.Message)
}

func TestUserServiceGet(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, models.ErrNotFound)
	repo.On("GetByUsername", mock.Anything, "broken").Return(nil, errors.New("pool closed"))
	svc := NewUserService(repo, newTestStore(), quietLogger())

	_, err := svc.Get(ctx, "ghost")
	var nerr *models.NotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, msgUserNotFound, nerr.Message)

	_, err = svc.Get(ctx, "broken")
	var perr *models.PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestUserServiceTopUp(t *testing.T) {
	ctx := context.Background()
	amount := decimal.RequireFromString("50")

	store := newTestStore()
	require.NoError(t, store.Set(ctx, cache.UserKey("tifosi"), &models.User{Username: "tifosi"}, 0))

	repo := new(MockUserRepository)
	repo.On("AdjustBalance", mock.Anything, "tifosi", amount).Return(decimal.RequireFromString("150.25"), nil)
	repo.On("AdjustBalance", mock.Anything, "ghost", amount).Return(decimal.Zero, models.ErrNotFound)
	svc := NewUserService(repo, store, quietLogger())

	balance, err := svc.TopUp(ctx, "tifosi", amount)
	require.NoError(t, err)
	assert.Equal(t, "150.25", balance.StringFixed(2))
	assert.Equal(t, 0, store.ItemCount())

	_, err = svc.TopUp(ctx, "ghost", amount)
	var nerr *models.NotFoundError
	require.ErrorAs(t, err, &nerr)

	for _, bad := range []string{"0", "-10"} {
		_, err = svc.TopUp(ctx, "tifosi", decimal.RequireFromString(bad))
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, msgAmountNotPositive, verr.Message)
	}
}

func TestUserServiceDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("Delete", mock.Anything, "tifosi").Return(nil)
	repo.On("Delete", mock.Anything, "ghost").Return(models.ErrNotFound)
	svc := NewUserService(repo, newTestStore(), quietLogger())

	require.NoError(t, svc.Delete(ctx, "tifosi"))

	err := svc.Delete(ctx, "ghost")
	var nerr *models.NotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, msgUserNotFound, nerr.Message)
}
