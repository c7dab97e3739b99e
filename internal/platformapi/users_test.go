package platformapi

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/mawulip/pronostix/internal/domain/user"
	"github.com/stretchr/testify/require"
)

func TestUserService_ProfileRefreshesSessionSnapshot(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 12, "username": "kofi", "email": "kofi@example.com", "first_name": "Kofi"}`))
	})

	client, sess := newTestClient(t, mux)
	sess.SetTokens("T1", "R1")

	snapshot, err := NewUserService(client).Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "kofi", snapshot.Username)

	stored, ok := sess.User()
	require.True(t, ok)
	require.Equal(t, snapshot, stored)
}

func TestUserService_UpdateProfileSendsOnlySetFields(t *testing.T) {
	t.Parallel()

	var body []byte
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 12, "username": "kofi", "email": "kofi@example.com", "first_name": "Koffi"}`))
	})

	client, sess := newTestClient(t, mux)
	sess.SetTokens("T1", "R1")

	firstName := "Koffi"
	snapshot, err := NewUserService(client).UpdateProfile(context.Background(), user.ProfileUpdate{FirstName: &firstName})
	require.NoError(t, err)
	require.Equal(t, "Koffi", snapshot.FirstName)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(body, &decoded))
	require.Equal(t, map[string]any{"first_name": "Koffi"}, decoded)

	stored, ok := sess.User()
	require.True(t, ok)
	require.Equal(t, snapshot, stored)
}
