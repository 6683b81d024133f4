package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ n int }

func TestPageIsBuiltOncePerSession(t *testing.T) {
	s, err := New(8)
	require.NoError(t, err)

	builds := 0
	build := func() *counter { builds++; return &counter{} }

	first, created := Page(s, "k1", "contacts", build)
	assert.True(t, created)
	first.n = 7

	again, created := Page(s, "k1", "contacts", build)
	assert.False(t, created)
	assert.Same(t, first, again)

	other, created := Page(s, "k2", "contacts", build)
	assert.True(t, created)
	assert.Zero(t, other.n)
	assert.Equal(t, 2, builds)

	s.Forget("k1")
	fresh, created := Page(s, "k1", "contacts", build)
	assert.True(t, created)
	assert.Zero(t, fresh.n)
}

func TestLeastRecentSessionIsEvicted(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	build := func() *counter { return &counter{} }

	Page(s, "a", "dashboard", build)
	Page(s, "b", "dashboard", build)
	Page(s, "a", "dashboard", build)
	Page(s, "c", "dashboard", build)
	assert.Equal(t, 2, s.Len())

	_, created := Page(s, "a", "dashboard", build)
	assert.False(t, created)
	_, created = Page(s, "b", "dashboard", build)
	assert.True(t, created)
}

func TestSessionKey(t *testing.T) {
	assert.Empty(t, SessionKey(""))
	k := SessionKey("token-1")
	assert.Len(t, k, 32)
	assert.Equal(t, k, SessionKey("token-1"))
	assert.NotEqual(t, k, SessionKey("token-2"))
	assert.NotContains(t, k, "token")
}
