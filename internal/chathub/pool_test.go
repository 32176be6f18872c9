package chathub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"randochat/backend/internal/chathub"
	"randochat/backend/internal/models"
)

func waitingEntry(id string) *chathub.WaitingEntry {
	return &chathub.WaitingEntry{ID: id, JoinedAt: time.Now()}
}

func TestPoolInsertKeepsArrivalOrder(t *testing.T) {
	pool := chathub.NewWaitingPool()

	assert.True(t, pool.Insert(models.ModeText, waitingEntry("a")))
	assert.True(t, pool.Insert(models.ModeText, waitingEntry("b")))
	assert.True(t, pool.Insert(models.ModeText, waitingEntry("c")))

	entries := pool.Entries(models.ModeText)
	assert.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
	assert.Equal(t, "c", entries[2].ID)
}

func TestPoolInsertRejectsDuplicate(t *testing.T) {
	pool := chathub.NewWaitingPool()

	assert.True(t, pool.Insert(models.ModeText, waitingEntry("a")))
	assert.False(t, pool.Insert(models.ModeText, waitingEntry("a")))
	// Also no double membership across modes.
	assert.False(t, pool.Insert(models.ModeVideo, waitingEntry("a")))

	assert.Equal(t, 1, pool.Size(models.ModeText))
	assert.Equal(t, 0, pool.Size(models.ModeVideo))
}

func TestPoolRemove(t *testing.T) {
	pool := chathub.NewWaitingPool()
	pool.Insert(models.ModeText, waitingEntry("a"))
	pool.Insert(models.ModeText, waitingEntry("b"))

	removed := pool.Remove("a")
	assert.NotNil(t, removed)
	assert.Equal(t, "a", removed.ID)
	assert.False(t, pool.Contains("a"))
	assert.Equal(t, 1, pool.Size(models.ModeText))

	assert.Nil(t, pool.Remove("a"), "second remove is a no-op")
	assert.Nil(t, pool.Remove("never-waited"))
}

func TestPoolLookup(t *testing.T) {
	pool := chathub.NewWaitingPool()
	e := waitingEntry("a")
	pool.Insert(models.ModeVideo, e)

	assert.Same(t, e, pool.Lookup("a"))
	assert.Nil(t, pool.Lookup("b"))
}

func TestPoolModesAreIndependent(t *testing.T) {
	pool := chathub.NewWaitingPool()
	pool.Insert(models.ModeText, waitingEntry("a"))
	pool.Insert(models.ModeVideo, waitingEntry("b"))

	assert.Equal(t, 1, pool.Size(models.ModeText))
	assert.Equal(t, 1, pool.Size(models.ModeVideo))
	assert.Equal(t, "a", pool.Entries(models.ModeText)[0].ID)
	assert.Equal(t, "b", pool.Entries(models.ModeVideo)[0].ID)
}
