package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rate_desk/internal/domain"
)

func TestStore_GetStartsThenReuses(t *testing.T) {
	s := NewStore(time.Hour)

	a, isNew := s.Get("")
	require.True(t, isNew)
	a.State.RatesHistory.Append(domain.Turn{Role: domain.RoleUser, Text: "hi"})

	b, isNew := s.Get(a.ID.String())
	assert.False(t, isNew)
	assert.Same(t, a, b)
	assert.Equal(t, 1, b.State.RatesHistory.Len())
}

func TestStore_UnknownOrGarbageIDStartsFresh(t *testing.T) {
	s := NewStore(time.Hour)

	_, isNew := s.Get("not-a-uuid")
	assert.True(t, isNew)
	_, isNew = s.Get("6f1c1f4e-8a43-4c55-9a53-0f3d1d3c1a11")
	assert.True(t, isNew)
	assert.Equal(t, 2, s.Len())
}

func TestStore_IdleSessionsExpire(t *testing.T) {
	s := NewStore(10 * time.Minute)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old, _ := s.Get("")
	now = now.Add(11 * time.Minute)

	fresh, isNew := s.Get(old.ID.String())
	assert.True(t, isNew, "expired session is not revived")
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Equal(t, 1, s.Len())
}

func TestStore_End(t *testing.T) {
	s := NewStore(0)
	a, _ := s.Get("")
	s.End(a.ID.String())
	s.End("garbage")
	assert.Zero(t, s.Len())

	_, isNew := s.Get(a.ID.String())
	assert.True(t, isNew)
}
