package service_test

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*model.User // keyed by username
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func newAuthFixture(t *testing.T) (service.AuthService, *model.User, []byte) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		ID:       uuid.New(),
		Username: "admin",
		Password: string(hash),
		Role:     model.RoleAdmin,
	}
	repo := &fakeUserRepo{users: map[string]*model.User{"admin": user}}
	secret := []byte("test-secret")
	return service.NewAuthService(repo, secret), user, secret
}

func TestLogin(t *testing.T) {
	t.Run("issues a signed token with the user's claims", func(t *testing.T) {
		svc, user, secret := newAuthFixture(t)

		resp, err := svc.Login(context.Background(), service.LoginRequest{Username: "admin", Password: "s3cret"})

		require.NoError(t, err)
		assert.Equal(t, "admin", resp.Username)
		assert.Equal(t, model.RoleAdmin, resp.Role)

		parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (any, error) {
			return secret, nil
		})
		require.NoError(t, err)
		claims, ok := parsed.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, user.ID.String(), claims["sub"])
		assert.Equal(t, "admin", claims["name"])
		assert.Equal(t, model.RoleAdmin, claims["role"])
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.Login(context.Background(), service.LoginRequest{Username: "admin", Password: "wrong"})

		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("unknown user is unauthorized, not not-found", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.Login(context.Background(), service.LoginRequest{Username: "ghost", Password: "s3cret"})

		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})
}

func TestMe(t *testing.T) {
	svc, user, _ := newAuthFixture(t)

	resp, err := svc.Me(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), resp.ID)
	assert.Equal(t, "admin", resp.Username)

	_, err = svc.Me(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
