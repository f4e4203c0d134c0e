package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/pkg/token"
)

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeRecorder) {
	users := newFakeUserRepo()
	recorder := &fakeRecorder{}
	tokens := token.NewManager("test-secret", time.Hour, "test")
	svc := NewAuthService(users, tokens, recorder, zap.NewNop())
	return svc, users, recorder
}

func TestRegisterDefaultsToParticipant(t *testing.T) {
	svc, _, recorder := newAuthFixture()

	user, signed, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}, dto.AccessMeta{IP: "10.0.0.1", Device: "test-agent"})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleParticipant, user.Role)
	assert.NotEmpty(t, signed)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	entries := recorder.recorded()
	require.Len(t, entries, 1)
	assert.Equal(t, user.ID, entries[0].UserID)
	assert.Equal(t, domain.SentinelEventID, entries[0].EventID)
	assert.Equal(t, domain.AccessTypeRegistration, entries[0].AccessType)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}, dto.AccessMeta{})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Alice Again", Email: "alice@example.com", Password: "other456",
	}, dto.AccessMeta{})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, recorder := newAuthFixture()

	registered, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret123", Role: domain.RoleOrganizer,
	}, dto.AccessMeta{})
	require.NoError(t, err)

	user, signed, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "bob@example.com", Password: "secret123",
	}, dto.AccessMeta{IP: "10.0.0.2"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, domain.RoleOrganizer, user.Role)
	assert.NotEmpty(t, signed)

	_, _, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "bob@example.com", Password: "wrong",
	}, dto.AccessMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "nobody@example.com", Password: "secret123",
	}, dto.AccessMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// register + successful login, failed attempts leave no trace
	assert.Len(t, recorder.recorded(), 2)
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newAuthFixture()

	user, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Carol", Email: "carol@example.com", Password: "secret123",
	}, dto.AccessMeta{})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user, dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newsecret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), user, dto.ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newsecret",
	})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: stored.Email, Password: "newsecret",
	}, dto.AccessMeta{})
	assert.NoError(t, err)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Dave", Email: "dave@example.com", Password: "secret123",
	}, dto.AccessMeta{})
	require.NoError(t, err)

	eve, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret123",
	}, dto.AccessMeta{})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), eve, dto.UpdateProfileRequest{Email: "dave@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	updated, err := svc.UpdateProfile(context.Background(), eve, dto.UpdateProfileRequest{Name: "Evelyn"})
	require.NoError(t, err)
	assert.Equal(t, "Evelyn", updated.Name)
}
