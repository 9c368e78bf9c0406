package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() (*authService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo).(*authService)
	svc.hash = func(p string) (string, error) { return utils.HashPasswordWithCost(p, bcrypt.MinCost) }
	return svc, repo
}

func TestAuthService_Register(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: " ann ", Email: "Ann@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ann", user.Username)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, models.RolePlayer, user.Role)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("correct horse", stored.PasswordHash))

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"no username", RegisterInput{Email: "b@example.com", Password: "long enough"}, ErrUsernameRequired},
		{"bad email", RegisterInput{Username: "b", Email: "nope", Password: "long enough"}, ErrInvalidEmail},
		{"short password", RegisterInput{Username: "b", Email: "b@example.com", Password: "short"}, ErrPasswordTooShort},
		{"taken email", RegisterInput{Username: "b", Email: "ann@example.com", Password: "long enough"}, ErrUserEmailConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, LoginInput{Email: " BOB@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
