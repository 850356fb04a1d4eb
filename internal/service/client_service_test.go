package service

import (
	"context"
	"testing"

	"storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewClientService(store.NewMemory())
	ctx := context.Background()

	client, err := svc.Register(ctx, &RegisterRequest{
		Nom:   "Alice Martin",
		Email: "alice@example.com",
		Mdp:   "secret",
	})
	require.NoError(t, err)
	assert.NotZero(t, client.ID)

	logged, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Mdp: "secret"})
	require.NoError(t, err)
	assert.Equal(t, client.ID, logged.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewClientService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Nom: "Alice", Email: "alice@example.com", Mdp: "a"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Nom: "Imposteur", Email: "alice@example.com", Mdp: "b"})
	require.Error(t, err)
	assert.Equal(t, KindDuplicateEmail, KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewClientService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Nom: "Bob", Email: "", Mdp: "x"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Register(ctx, &RegisterRequest{Nom: "Bob", Email: "pas-un-email", Mdp: "x"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestLoginBadCredentials(t *testing.T) {
	svc := NewClientService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Nom: "Alice", Email: "alice@example.com", Mdp: "secret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Mdp: "faux"})
	require.Error(t, err)
	assert.Equal(t, KindBadCredentials, KindOf(err))

	_, err = svc.Login(ctx, &LoginRequest{Email: "inconnue@example.com", Mdp: "secret"})
	require.Error(t, err)
	assert.Equal(t, KindBadCredentials, KindOf(err))
}
