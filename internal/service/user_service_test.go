package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/mocks"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, users *mocks.MockUserStore, verifier *mocks.MockPasswordVerifier) *service.UserServiceImpl {
	t.Helper()

	svc, err := service.NewUserService(users, &mocks.MockTransactor{}, verifier, nil)
	require.NoError(t, err)
	return svc
}

func TestNewUserService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := service.NewUserService(nil, &mocks.MockTransactor{}, &mocks.MockPasswordVerifier{}, nil)
	assert.Error(t, err)

	_, err = service.NewUserService(&mocks.MockUserStore{}, nil, &mocks.MockPasswordVerifier{}, nil)
	assert.Error(t, err)

	_, err = service.NewUserService(&mocks.MockUserStore{}, &mocks.MockTransactor{}, nil, nil)
	assert.Error(t, err)
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates the user", func(t *testing.T) {
		t.Parallel()
		users := &mocks.MockUserStore{}
		svc := newUserService(t, users, &mocks.MockPasswordVerifier{})

		user, err := svc.Register(context.Background(), " alice ", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		require.Len(t, users.Created, 1)
		assert.Equal(t, user.ID, users.Created[0].ID)
	})

	t.Run("invalid input is a validation error", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t, &mocks.MockUserStore{}, &mocks.MockPasswordVerifier{})

		_, err := svc.Register(context.Background(), "al", "password123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, domain.ErrInvalidUsername)

		_, err = svc.Register(context.Background(), "alice", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("taken username conflicts", func(t *testing.T) {
		t.Parallel()
		users := &mocks.MockUserStore{
			CreateFn: func(context.Context, *domain.User) error { return store.ErrUsernameExists },
		}
		svc := newUserService(t, users, &mocks.MockPasswordVerifier{})

		_, err := svc.Register(context.Background(), "alice", "password123")
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	stored := &domain.User{ID: uuid.New(), Username: "alice", HashedPassword: "hash"}
	lookup := func(_ context.Context, username string) (*domain.User, error) {
		if username == "alice" {
			return stored, nil
		}
		return nil, store.ErrUserNotFound
	}

	t.Run("matching password returns the user", func(t *testing.T) {
		t.Parallel()
		verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
		svc := newUserService(t, &mocks.MockUserStore{GetByUsernameFn: lookup}, verifier)

		user, err := svc.Authenticate(context.Background(), "alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
		assert.Equal(t, "hash", verifier.CompareCalledWith.HashedPassword)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t, &mocks.MockUserStore{GetByUsernameFn: lookup}, &mocks.MockPasswordVerifier{})

		_, err := svc.Authenticate(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = svc.Authenticate(context.Background(), "bob", "password123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		t.Parallel()
		users := &mocks.MockUserStore{Err: errors.New("connection refused")}
		svc := newUserService(t, users, &mocks.MockPasswordVerifier{})

		_, err := svc.Authenticate(context.Background(), "alice", "password123")
		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestUserService_GetUser(t *testing.T) {
	t.Parallel()
	svc := newUserService(t, &mocks.MockUserStore{}, &mocks.MockPasswordVerifier{})

	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
