package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mrlokans/criminaldb/internal/config"
	"github.com/mrlokans/criminaldb/internal/database"
	"github.com/mrlokans/criminaldb/internal/failure"
)

func setupService(t *testing.T, codec PasswordCodec) (*Service, database.Provider) {
	t.Helper()
	provider := database.NewConnector(config.Database{
		Driver:   config.DriverSQLite,
		Name:     filepath.Join(t.TempDir(), "auth.db"),
		LogLevel: "silent",
	})
	require.NoError(t, database.EnsureSchema(context.Background(), provider))
	return NewService(provider, NewSessionState(), codec), provider
}

func storedPassword(t *testing.T, provider database.Provider, username string) string {
	t.Helper()
	var password string
	require.NoError(t, database.WithSession(context.Background(), provider, func(db *gorm.DB) error {
		return db.Raw("SELECT password FROM users WHERE username = ?", username).Row().Scan(&password)
	}))
	return password
}

func TestService_Register(t *testing.T) {
	svc, provider := setupService(t, nil)

	user, err := svc.Register(context.Background(), " alice ", "wonderland")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "wonderland", storedPassword(t, provider, "alice"), "plain codec stores verbatim")
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _ := setupService(t, nil)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"missing username", "", "pw", ErrUsernameRequired},
		{"blank username", "   ", "pw", ErrUsernameRequired},
		{"missing password", "alice", "", ErrPasswordRequired},
		{"blank password", "alice", "  ", ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, failure.Is(err, failure.KindValidation))
		})
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "first")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "second")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserExists)
	assert.ErrorIs(t, err, database.ErrDuplicate)
	assert.True(t, failure.Is(err, failure.KindConstraint))
	assert.Contains(t, err.Error(), "UNIQUE constraint failed", "store text is surfaced")
}

func TestService_Login(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	id, err := svc.Login(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)

	current, ok := svc.Current()
	assert.True(t, ok)
	assert.Equal(t, "alice", current.Username)
}

func TestService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "alice", "wrong")
	_, unknownUser := svc.Login(ctx, "nobody", "x")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, failure.KindOf(wrongPassword), failure.KindOf(unknownUser))
	assert.False(t, svc.State().IsAuthenticated())
}

func TestService_FailedLoginKeepsPreviousIdentity(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "builder")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wonderland")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "bob", "wrong")
	require.Error(t, err)

	current, _ := svc.Current()
	assert.Equal(t, "alice", current.Username)

	_, err = svc.Login(ctx, "bob", "builder")
	require.NoError(t, err)
	current, _ = svc.Current()
	assert.Equal(t, "bob", current.Username, "new login replaces identity")
}

func TestService_Logout(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "wonderland")
	require.NoError(t, err)

	username, ok := svc.Logout()
	assert.True(t, ok)
	assert.Equal(t, "alice", username)

	_, ok = svc.Current()
	assert.False(t, ok)
}

func TestService_ChangePassword(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, "alice", "looking-glass"))

	_, err = svc.Login(ctx, "alice", "wonderland")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice", "looking-glass")
	assert.NoError(t, err)
}

func TestService_ChangePasswordUnknownUser(t *testing.T) {
	svc, _ := setupService(t, nil)

	err := svc.ChangePassword(context.Background(), "ghost", "whatever")

	assert.NoError(t, err)
}

func TestService_ChangePasswordRequiresPassword(t *testing.T) {
	svc, _ := setupService(t, nil)

	err := svc.ChangePassword(context.Background(), "alice", "")

	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestService_BcryptStorage(t *testing.T) {
	svc, provider := setupService(t, BcryptCodec{Cost: bcrypt.MinCost})
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	stored := storedPassword(t, provider, "alice")
	assert.NotEqual(t, "wonderland", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("wonderland")))

	_, err = svc.Login(ctx, "alice", "wonderland")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "alice", stored)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "the hash is not a password")
}

func TestService_UserCount(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	n, err := svc.UserCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "builder")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "again")
	require.Error(t, err)

	n, err = svc.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestService_Unreachable(t *testing.T) {
	provider := database.NewConnector(config.Database{
		Driver:   config.DriverSQLite,
		Name:     filepath.Join(t.TempDir(), "missing", "auth.db"),
		LogLevel: "silent",
	})
	svc := NewService(provider, NewSessionState(), nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw")
	assert.True(t, failure.Is(err, failure.KindConnectivity))

	_, err = svc.Login(ctx, "alice", "pw")
	assert.True(t, failure.Is(err, failure.KindConnectivity))
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, "alice", "pw")
	assert.True(t, failure.Is(err, failure.KindConnectivity))

	_, err = svc.UserCount(ctx)
	assert.True(t, failure.Is(err, failure.KindConnectivity))
}
