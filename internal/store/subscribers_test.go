package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberStore_AddAndReload(t *testing.T) {
	dir := t.TempDir()
	s := NewSubscriberStore(dir)

	sub, err := s.Add("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub.Email)
	assert.True(t, sub.Confirmed)
	assert.False(t, sub.SubscribedAt.IsZero())

	reloaded := NewSubscriberStore(dir)
	confirmed := reloaded.LoadConfirmed()
	require.Len(t, confirmed, 1)
	assert.Equal(t, "alice@example.com", confirmed[0].Email)
}

func TestSubscriberStore_DuplicateEmailConflicts(t *testing.T) {
	dir := t.TempDir()
	s := NewSubscriberStore(dir)

	_, err := s.Add("alice@example.com")
	require.NoError(t, err)

	_, err = s.Add("alice@example.com")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
	assert.Equal(t, 1, s.Count())
}

func TestSubscriberStore_LoadConfirmedKeepsOrderAndFiltersUnconfirmed(t *testing.T) {
	dir := t.TempDir()
	data := `[
		{"email":"a@example.com","subscribed_at":"2026-01-01T00:00:00Z","confirmed":true},
		{"email":"b@example.com","subscribed_at":"2026-01-02T00:00:00Z","confirmed":false},
		{"email":"c@example.com","subscribed_at":"2026-01-03T00:00:00Z","confirmed":true}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, subscribersFile), []byte(data), 0644))

	s := NewSubscriberStore(dir)
	confirmed := s.LoadConfirmed()

	require.Len(t, confirmed, 2)
	assert.Equal(t, "a@example.com", confirmed[0].Email)
	assert.Equal(t, "c@example.com", confirmed[1].Email)
	assert.Equal(t, 3, s.Count())
}

func TestSubscriberStore_SeesWritesFromOtherProcess(t *testing.T) {
	dir := t.TempDir()
	watcherSide := NewSubscriberStore(dir)
	require.Empty(t, watcherSide.LoadConfirmed())

	//the API process writes to the same data dir after the watcher started
	apiSide := NewSubscriberStore(dir)
	_, err := apiSide.Add("late@example.com")
	require.NoError(t, err)

	confirmed := watcherSide.LoadConfirmed()
	require.Len(t, confirmed, 1)
	assert.Equal(t, "late@example.com", confirmed[0].Email)
	assert.Equal(t, 1, watcherSide.Count())
}

func TestSubscriberStore_AddRollsBackWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	s := NewSubscriberStore(dir)

	//block the temp path so the atomic write cannot happen
	blocker := filepath.Join(dir, subscribersFile+".tmp")
	require.NoError(t, os.Mkdir(blocker, 0755))

	_, err := s.Add("alice@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadySubscribed)
	assert.Equal(t, 0, s.Count())

	//a retry succeeds once the write path is usable again
	require.NoError(t, os.Remove(blocker))
	_, err = s.Add("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())
}

func TestSubscriberStore_MissingFileInitializesEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewSubscriberStore(dir)

	assert.Empty(t, s.LoadConfirmed())

	data, err := os.ReadFile(filepath.Join(dir, subscribersFile))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestSubscriberStore_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, subscribersFile), []byte("not json"), 0644))

	s := NewSubscriberStore(dir)
	assert.Equal(t, 0, s.Count())
}
