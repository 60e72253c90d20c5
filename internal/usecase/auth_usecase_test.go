package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"
	"ecoshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockAuthValidator struct{ mock.Mock }

func (m *MockAuthValidator) ValidateSignup(ctx context.Context, username, email, password string) error {
	args := m.Called(ctx, username, email, password)
	return args.Error(0)
}

func (m *MockAuthValidator) ValidateLogin(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

type fakeVerifier struct{}

func (fakeVerifier) Verify(p, hash string) bool { return hash == "hashed:"+p }

type fakeIssuer struct{ ttl time.Duration }

func (i fakeIssuer) Issue(userID int64, tv int, now time.Time) (string, time.Time, error) {
	return "token", now.Add(i.ttl), nil
}

func newAuthUsecase(users *MockUserRepository, v *MockAuthValidator) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(users, v, fakeHasher{}, fakeVerifier{}, fakeIssuer{ttl: 24 * time.Hour}, fixedClock{t: testNow}, discardLogger())
}

func TestSignup_Success(t *testing.T) {
	users := new(MockUserRepository)
	v := new(MockAuthValidator)
	ctx := context.Background()

	v.On("ValidateSignup", ctx, "alice", "alice@example.com", "password123").Return(nil)
	users.On("ExistsByUsernameOrEmail", ctx, "alice", "alice@example.com").Return(false, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.PasswordHash == "hashed:password123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 1
	}).Return(nil)

	res, err := newAuthUsecase(users, v).Signup(ctx, usecase.SignupInput{
		Username: " alice ",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Signup successful", res.Message)
	assert.Equal(t, int64(1), res.User.ID)
	assert.Equal(t, "token", res.Token.AccessToken)
	assert.Equal(t, int64(86400), res.Token.ExpiresIn)
}

func TestSignup_Conflict(t *testing.T) {
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		users := new(MockUserRepository)
		v := new(MockAuthValidator)
		v.On("ValidateSignup", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		users.On("ExistsByUsernameOrEmail", ctx, "bob", "bob@example.com").Return(true, nil)

		_, err := newAuthUsecase(users, v).Signup(ctx, usecase.SignupInput{Username: "bob", Email: "bob@example.com", Password: "password123"})
		he, ok := usecase.AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Status)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique violation race", func(t *testing.T) {
		users := new(MockUserRepository)
		v := new(MockAuthValidator)
		v.On("ValidateSignup", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		users.On("ExistsByUsernameOrEmail", ctx, mock.Anything, mock.Anything).Return(false, nil)
		users.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := newAuthUsecase(users, v).Signup(ctx, usecase.SignupInput{Username: "bob", Email: "bob@example.com", Password: "password123"})
		he, ok := usecase.AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Status)
	})
}

func TestSignup_ValidationError(t *testing.T) {
	users := new(MockUserRepository)
	v := new(MockAuthValidator)
	ctx := context.Background()
	v.On("ValidateSignup", ctx, "", "", "").Return(errors.New("Missing required fields"))

	_, err := newAuthUsecase(users, v).Signup(ctx, usecase.SignupInput{})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Missing required fields", he.Message)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	stored := &model.User{ID: 3, Username: "carol", Email: "carol@example.com", PasswordHash: "hashed:secret123", TokenVersion: 2}

	tests := []struct {
		name     string
		email    string
		password string
		user     *model.User
		findErr  error
		status   int
	}{
		{name: "ok", email: "carol@example.com", password: "secret123", user: stored},
		{name: "wrong password", email: "carol@example.com", password: "nope", user: stored, status: http.StatusUnauthorized},
		{name: "unknown email", email: "dave@example.com", password: "secret123", findErr: repo.ErrNotFound, status: http.StatusUnauthorized},
		{name: "db down", email: "carol@example.com", password: "secret123", findErr: errors.New("conn refused"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			v := new(MockAuthValidator)
			v.On("ValidateLogin", ctx, tt.email, tt.password).Return(nil)
			users.On("FindByEmail", ctx, tt.email).Return(tt.user, tt.findErr)

			res, err := newAuthUsecase(users, v).Login(ctx, usecase.LoginInput{Email: tt.email, Password: tt.password})
			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "Login successful", res.Message)
				assert.Equal(t, "carol", res.User.Username)
				return
			}
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, he.Status)
		})
	}
}

func TestLogout_BumpsTokenVersion(t *testing.T) {
	users := new(MockUserRepository)
	ctx := context.Background()
	users.On("IncrementTokenVersion", ctx, int64(4)).Return(nil)

	err := newAuthUsecase(users, new(MockAuthValidator)).Logout(ctx, 4)
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestMe(t *testing.T) {
	users := new(MockUserRepository)
	ctx := context.Background()
	users.On("FindByID", ctx, int64(4)).Return(&model.User{ID: 4, Username: "erin", Email: "erin@example.com", CreatedAt: testNow}, nil)
	users.On("FindByID", ctx, int64(5)).Return(nil, repo.ErrNotFound)

	uc := newAuthUsecase(users, new(MockAuthValidator))
	me, err := uc.Me(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "erin", me.Username)
	assert.Equal(t, testNow, me.CreatedAt)

	_, err = uc.Me(ctx, 5)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
