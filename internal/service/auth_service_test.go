package service_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"evenza/internal/auth"
	"evenza/internal/mailer"
	"evenza/internal/model"
	"evenza/internal/service"
	"evenza/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - verification email dispatched", func(t *testing.T) {
		var received map[string]string
		relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/email/verification", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &received)
			w.WriteHeader(http.StatusOK)
		}))
		defer relay.Close()

		users := new(MockUserRepository)
		users.On("Create", ctx, mock.MatchedBy(func(user *model.User) bool {
			return user.Email == "user@example.com" &&
				!user.EmailVerified &&
				len(user.VerificationCode) == 6 &&
				user.PasswordHash != "longenoughpassword"
		})).Return(nil)

		svc := service.NewAuthService(users, mailer.NewClient(relay.URL), "secret")

		user, err := svc.Register(ctx, "user@example.com", "longenoughpassword")

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		require.NotNil(t, received)
		assert.Equal(t, "user@example.com", received["recipientEmail"])
		assert.Equal(t, user.VerificationCode, received["code"])
		users.AssertExpectations(t)
	})

	t.Run("Failed - password too short", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		_, err := svc.Register(ctx, "user@example.com", "short")

		assert.ErrorIs(t, err, app_errors.ErrInvalidInput)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failed - email already registered", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Create", ctx, mock.Anything).Return(app_errors.ErrEmailTaken)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		_, err := svc.Register(ctx, "user@example.com", "longenoughpassword")

		assert.ErrorIs(t, err, app_errors.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	storedUser := func(t *testing.T) *model.User {
		t.Helper()
		hash, err := auth.HashPassword("longenoughpassword")
		require.NoError(t, err)
		return &model.User{
			ID:            "user-1",
			Email:         "user@example.com",
			PasswordHash:  hash,
			EmailVerified: true,
		}
	}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "user@example.com").Return(storedUser(t), nil)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		token, ident, err := svc.Login(ctx, "user@example.com", "longenoughpassword")

		require.NoError(t, err)
		require.NotNil(t, ident)
		assert.Equal(t, "user-1", ident.UID)
		assert.True(t, ident.EmailVerified)

		parsed, err := auth.ParseToken(token, "secret")
		require.NoError(t, err)
		assert.Equal(t, "user-1", parsed.UID)
	})

	t.Run("Failed - unknown account looks like bad password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, app_errors.ErrUserNotFound)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		_, _, err := svc.Login(ctx, "nobody@example.com", "longenoughpassword")

		assert.ErrorIs(t, err, app_errors.ErrBadCredential)
	})

	t.Run("Failed - wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "user@example.com").Return(storedUser(t), nil)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		_, _, err := svc.Login(ctx, "user@example.com", "wrong password")

		assert.ErrorIs(t, err, app_errors.ErrBadCredential)
	})
}

func TestAuthService_Verify(t *testing.T) {
	ctx := context.Background()

	pending := func() *model.User {
		return &model.User{
			ID:               "user-1",
			Email:            "user@example.com",
			EmailVerified:    false,
			VerificationCode: "123456",
		}
	}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "user@example.com").Return(pending(), nil)
		users.On("MarkVerified", ctx, "user-1").Return(nil)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		err := svc.Verify(ctx, "user@example.com", "123456")

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("Success - already verified is idempotent", func(t *testing.T) {
		users := new(MockUserRepository)
		verified := pending()
		verified.EmailVerified = true
		verified.VerificationCode = ""
		users.On("FindByEmail", ctx, "user@example.com").Return(verified, nil)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		err := svc.Verify(ctx, "user@example.com", "999999")

		require.NoError(t, err)
		users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	})

	t.Run("Failed - wrong code", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "user@example.com").Return(pending(), nil)
		svc := service.NewAuthService(users, mailer.NewClient(""), "secret")

		err := svc.Verify(ctx, "user@example.com", "654321")

		assert.ErrorIs(t, err, app_errors.ErrBadCode)
		users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	})
}
