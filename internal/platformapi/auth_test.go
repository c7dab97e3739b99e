package platformapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/mawulip/pronostix/internal/usecase"
	"github.com/stretchr/testify/require"
)

const authResponseBody = `{
	"access": "T1",
	"refresh": "R1",
	"user": {
		"id": 12,
		"username": "kofi",
		"email": "kofi@example.com",
		"first_name": "Kofi",
		"last_name": "Mensah"
	}
}`

func TestAuthService_LoginStoresTokensAndUser(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authResponseBody))
	})

	client, sess := newTestClient(t, mux)
	auth := NewAuthService(client)

	snapshot, err := auth.Login(context.Background(), LoginCredentials{
		Email:    "kofi@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	require.Equal(t, "kofi", snapshot.Username)
	require.Equal(t, "Kofi Mensah", snapshot.DisplayName())
	require.Equal(t, "T1", sess.AccessToken())
	require.Equal(t, "R1", sess.RefreshToken())
	require.True(t, sess.IsAuthenticated())

	stored, ok := sess.User()
	require.True(t, ok)
	require.Equal(t, snapshot, stored)
}

func TestAuthService_LoginRejectsInvalidInputLocally(t *testing.T) {
	t.Parallel()

	var serverHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		serverHits.Add(1)
	})

	client, _ := newTestClient(t, mux)
	auth := NewAuthService(client)

	_, err := auth.Login(context.Background(), LoginCredentials{Email: "pas-un-email", Password: "x"})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
	require.Zero(t, serverHits.Load(), "validation failures must not reach the backend")
}

func TestAuthService_LoginThrottlesAfterRepeatedRejections(t *testing.T) {
	t.Parallel()

	var serverHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		serverHits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"identifiants invalides"}`))
	})

	client, _ := newTestClient(t, mux)
	auth := NewAuthService(client)

	creds := LoginCredentials{Email: "kofi@example.com", Password: "wrong"}
	for i := 0; i < throttleMaxFailures; i++ {
		_, err := auth.Login(context.Background(), creds)
		require.ErrorIs(t, err, usecase.ErrUnauthorized)
	}

	_, err := auth.Login(context.Background(), creds)
	require.ErrorIs(t, err, ErrTooManyAttempts)
	require.Equal(t, int32(throttleMaxFailures), serverHits.Load(), "throttled attempts must not reach the backend")
}

func TestAuthService_SuccessfulLoginResetsThrottle(t *testing.T) {
	t.Parallel()

	var failNext atomic.Bool
	failNext.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		if failNext.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"identifiants invalides"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authResponseBody))
	})

	client, _ := newTestClient(t, mux)
	auth := NewAuthService(client)

	creds := LoginCredentials{Email: "kofi@example.com", Password: "pw"}
	for i := 0; i < throttleMaxFailures-1; i++ {
		_, err := auth.Login(context.Background(), creds)
		require.Error(t, err)
	}

	failNext.Store(false)
	_, err := auth.Login(context.Background(), creds)
	require.NoError(t, err)

	failNext.Store(true)
	_, err = auth.Login(context.Background(), creds)
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
	require.NotErrorIs(t, err, ErrTooManyAttempts)
}

func TestAuthService_RegisterStoresSession(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authResponseBody))
	})

	client, sess := newTestClient(t, mux)
	auth := NewAuthService(client)

	_, err := auth.Register(context.Background(), RegisterInput{
		Username:        "kofi",
		Email:           "kofi@example.com",
		Password:        "secret",
		PasswordConfirm: "secret",
	})
	require.NoError(t, err)
	require.True(t, sess.IsAuthenticated())
}

func TestAuthService_LogoutClearsSession(t *testing.T) {
	t.Parallel()

	client, sess := newTestClient(t, http.NewServeMux())
	sess.SetTokens("T1", "R1")

	NewAuthService(client).Logout()
	require.False(t, sess.IsAuthenticated())
}
