package session

import (
	"sync"
	"testing"

	"github.com/mawulip/pronostix/internal/domain/user"
	"github.com/stretchr/testify/require"
)

func TestStore_TokenRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore()
	require.False(t, store.IsAuthenticated())

	const token = "eyJhbGciOiJIUzI1NiJ9.payload.sig"
	store.SetAccessToken(token)
	require.Equal(t, token, store.AccessToken())
	require.True(t, store.IsAuthenticated())

	store.SetRefreshToken("refresh-1")
	require.Equal(t, "refresh-1", store.RefreshToken())
}

func TestStore_SetTokensReplacesBothTogether(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.SetTokens("T1", "R1")
	require.Equal(t, "T1", store.AccessToken())
	require.Equal(t, "R1", store.RefreshToken())

	store.SetTokens("T2", "R2")
	require.Equal(t, "T2", store.AccessToken())
	require.Equal(t, "R2", store.RefreshToken())
}

func TestStore_ClearDestroysEverythingAndNotifies(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.SetTokens("T1", "R1")
	store.SetUser(user.Snapshot{ID: 7, Email: "a@b.com"})

	var mu sync.Mutex
	notified := 0
	store.OnClear(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	store.Clear()

	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.AccessToken())
	require.Empty(t, store.RefreshToken())
	_, ok := store.User()
	require.False(t, ok)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, notified)
}

func TestStore_IsAuthenticatedTransitions(t *testing.T) {
	t.Parallel()

	store := NewStore()
	require.False(t, store.IsAuthenticated())

	store.SetTokens("T1", "R1")
	require.True(t, store.IsAuthenticated())

	// Unrelated writes do not flip the flag.
	store.SetUser(user.Snapshot{ID: 1})
	store.SetRefreshToken("R2")
	require.True(t, store.IsAuthenticated())

	store.Clear()
	require.False(t, store.IsAuthenticated())
}

func TestStore_ListenerMayReenterStore(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.SetTokens("T1", "R1")
	store.OnClear(func() {
		// Callers routinely read state from the clear hook.
		_ = store.IsAuthenticated()
	})

	store.Clear()
	require.False(t, store.IsAuthenticated())
}
