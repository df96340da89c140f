package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionState_Lifecycle(t *testing.T) {
	state := NewSessionState()
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	state.now = func() time.Time { return fixed }

	_, ok := state.Current()
	assert.False(t, ok, "starts anonymous")
	assert.False(t, state.IsAuthenticated())

	id := state.Login("alice")
	assert.Equal(t, Identity{Username: "alice", LoginAt: fixed}, id)
	assert.True(t, state.IsAuthenticated())

	current, ok := state.Current()
	assert.True(t, ok)
	assert.Equal(t, "alice", current.Username)

	username, ok := state.Logout()
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
	assert.False(t, state.IsAuthenticated())

	_, ok = state.Logout()
	assert.False(t, ok, "logout while anonymous")
}

func TestSessionState_LoginReplacesIdentity(t *testing.T) {
	state := NewSessionState()

	state.Login("alice")
	state.Login("bob")

	current, ok := state.Current()
	assert.True(t, ok)
	assert.Equal(t, "bob", current.Username)

	username, _ := state.Logout()
	assert.Equal(t, "bob", username)
	assert.False(t, state.IsAuthenticated(), "one logout clears everything")
}

func TestSessionState_ConcurrentAccess(t *testing.T) {
	state := NewSessionState()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); state.Login("alice") }()
		go func() { defer wg.Done(); state.Current() }()
		go func() { defer wg.Done(); state.Logout() }()
	}
	wg.Wait()

	if id, ok := state.Current(); ok {
		assert.Equal(t, "alice", id.Username)
	}
}
