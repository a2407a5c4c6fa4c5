// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagmi/tagmi/internal/platform/apperr"
	"github.com/tagmi/tagmi/internal/users/auth"
)

// fakeUserRepository is an in-memory account store keyed by user ID.
type fakeUserRepository struct {
	users map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*auth.User{}}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(f.users, id)
	return nil
}

// fakeSessionRepository tracks sessions by token hash.
type fakeSessionRepository struct {
	sessions map[string]*auth.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (f *fakeSessionRepository) Save(_ context.Context, tokenHash string, session *auth.Session, _ time.Duration) error {
	f.sessions[tokenHash] = session
	return nil
}

func (f *fakeSessionRepository) Resolve(_ context.Context, tokenHash string) (*auth.Session, error) {
	if session, ok := f.sessions[tokenHash]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Session")
}

func (f *fakeSessionRepository) Revoke(_ context.Context, _, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for hash, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, hash)
		}
	}
	return nil
}

func (f *fakeSessionRepository) countFor(userID string) int {
	count := 0
	for _, session := range f.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count
}

// fakeTokenProvider mints predictable access tokens.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _ string, _ time.Duration) (string, error) {
	return "access-token-" + userID, nil
}

func newService() (*auth.Service, *fakeUserRepository, *fakeSessionRepository) {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	return auth.NewService(users, sessions, fakeTokenProvider{}), users, sessions
}

func register(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

/*
TestRegister hashes the password and rejects duplicate identities.
*/
func TestRegister(t *testing.T) {
	service, users, _ := newService()

	user := register(t, service)
	assert.NotEqual(t, "correct horse battery", users.users[user.ID].PasswordHash)

	tests := []struct {
		name    string
		input   auth.RegisterInput
		wantMsg string
	}{
		{"duplicate_email", auth.RegisterInput{Username: "other", Email: "alice@example.com", Password: "x12345678"}, "Email is already registered"},
		{"duplicate_username", auth.RegisterInput{Username: "alice", Email: "other@example.com", Password: "x12345678"}, "Username is already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
			assert.Equal(t, tt.wantMsg, ae.Message)
		})
	}
}

/*
TestLogin accepts the email or the username and rejects everything else with
the same message.
*/
func TestLogin(t *testing.T) {
	service, _, sessions := newService()
	user := register(t, service)

	for _, login := range []string{"alice@example.com", "alice"} {
		session, err := service.Login(context.Background(), auth.LoginInput{
			Login:    login,
			Password: "correct horse battery",
		})
		require.NoError(t, err)
		assert.Equal(t, "access-token-"+user.ID, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
	}
	assert.Equal(t, 2, sessions.countFor(user.ID))

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"wrong_password", "alice", "wrong"},
		{"unknown_user", "nobody", "correct horse battery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), auth.LoginInput{Login: tt.login, Password: tt.password})
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "Invalid login credentials", ae.Message)
		})
	}
}

/*
TestRefreshSession rotates the refresh token: the old token dies the moment
it is used, and a replay is rejected.
*/
func TestRefreshSession(t *testing.T) {
	service, _, sessions := newService()
	user := register(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	renewed, err := service.RefreshSession(context.Background(), session.RefreshToken, "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken)
	assert.Equal(t, 1, sessions.countFor(user.ID))

	// Replaying the consumed token must fail.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken, "ua", "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired refresh token", apperr.As(err).Message)
}

/*
TestLogout is idempotent.
*/
func TestLogout(t *testing.T) {
	service, _, sessions := newService()
	user := register(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	assert.Equal(t, 0, sessions.countFor(user.ID))

	// A dead or fabricated token logs out cleanly.
	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), "never-issued"))
}

/*
TestDeleteAccount requires a fresh password check, removes the account, and
kills every session.
*/
func TestDeleteAccount(t *testing.T) {
	service, users, sessions := newService()
	user := register(t, service)

	for range [3]struct{}{} {
		_, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "alice",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
	}

	err := service.DeleteAccount(context.Background(), user.ID, "wrong")
	require.Error(t, err)
	assert.Equal(t, "Password is incorrect", apperr.As(err).Message)
	assert.Equal(t, 3, sessions.countFor(user.ID))

	require.NoError(t, service.DeleteAccount(context.Background(), user.ID, "correct horse battery"))
	assert.Empty(t, users.users)
	assert.Equal(t, 0, sessions.countFor(user.ID))

	err = service.DeleteAccount(context.Background(), user.ID, "correct horse battery")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
