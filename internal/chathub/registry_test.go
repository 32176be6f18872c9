package chathub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randochat/backend/internal/chathub"
)

func TestRegistryResolve(t *testing.T) {
	reg := chathub.NewRegistry()
	c := newMockClient("user_a")
	reg.Register(c)

	got, ok := reg.Resolve("user_a")
	require.True(t, ok)
	assert.Same(t, c, got.(*MockClient))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryResolveUnknown(t *testing.T) {
	reg := chathub.NewRegistry()

	_, ok := reg.Resolve("nobody")
	assert.False(t, ok)
}

func TestRegistryUnregister(t *testing.T) {
	reg := chathub.NewRegistry()
	c := newMockClient("user_a")
	reg.Register(c)

	assert.True(t, reg.Unregister(c))
	_, ok := reg.Resolve("user_a")
	assert.False(t, ok)
	assert.False(t, reg.Unregister(c), "second unregister is a no-op")
}

func TestRegistryUnregisterIgnoresReplacedClient(t *testing.T) {
	reg := chathub.NewRegistry()
	old := newMockClient("user_a")
	replacement := newMockClient("user_a")
	reg.Register(old)
	reg.Register(replacement)

	assert.False(t, reg.Unregister(old), "stale connection cannot evict its successor")
	got, ok := reg.Resolve("user_a")
	require.True(t, ok)
	assert.Same(t, replacement, got.(*MockClient))
}
