package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobalert/internal/models"
)

func record(id, company string) models.SeenRecord {
	return models.SeenRecord{ID: id, Company: company, Deadline: "31 Dec", Posted: "1 Dec", Link: "http://x/" + id}
}

func TestSeenStore_MissingFileInitializesEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewSeenStore(dir)

	assert.Equal(t, 0, s.Count())

	//the empty set is persisted so subsequent reads are consistent
	data, err := os.ReadFile(filepath.Join(dir, seenFile))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestSeenStore_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, seenFile), []byte("{not json"), 0644))

	s := NewSeenStore(dir)
	assert.Equal(t, 0, s.Count())
}

func TestSeenStore_AppendAndReload(t *testing.T) {
	dir := t.TempDir()
	s := NewSeenStore(dir)

	require.NoError(t, s.Append([]models.SeenRecord{record("a1", "Acme"), record("b2", "Beta")}))
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Contains("a1"))
	assert.True(t, s.Contains("b2"))
	assert.False(t, s.Contains("c3"))

	//survives restart
	reloaded := NewSeenStore(dir)
	assert.Equal(t, 2, reloaded.Count())
	assert.True(t, reloaded.Contains("a1"))
}

func TestSeenStore_AppendIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := NewSeenStore(dir)

	require.NoError(t, s.Append([]models.SeenRecord{record("a1", "Acme")}))
	require.NoError(t, s.Append([]models.SeenRecord{record("a1", "Acme")}))

	assert.Equal(t, 1, s.Count())

	reloaded := NewSeenStore(dir)
	assert.Equal(t, 1, reloaded.Count())
}

func TestSeenStore_IDsIsASnapshot(t *testing.T) {
	dir := t.TempDir()
	s := NewSeenStore(dir)
	require.NoError(t, s.Append([]models.SeenRecord{record("a1", "Acme")}))

	ids := s.IDs()
	ids.Add("injected")

	assert.False(t, s.Contains("injected"))
}

func TestSeenStore_SeesAppendsFromOtherProcess(t *testing.T) {
	dir := t.TempDir()
	serverSide := NewSeenStore(dir)
	watcherSide := NewSeenStore(dir)

	require.NoError(t, watcherSide.Append([]models.SeenRecord{record("a1", "Acme")}))

	//the server-side instance was opened before the append landed
	assert.Equal(t, 1, serverSide.Count())
	assert.True(t, serverSide.Contains("a1"))
	assert.False(t, serverSide.LastUpdated().IsZero())
}

func TestSeenStore_AppendSurfacesWriteFailureAndRollsBack(t *testing.T) {
	dir := t.TempDir()
	s := NewSeenStore(dir)

	//block the temp path so the atomic write cannot happen
	blocker := filepath.Join(dir, seenFile+".tmp")
	require.NoError(t, os.Mkdir(blocker, 0755))

	err := s.Append([]models.SeenRecord{record("a1", "Acme")})
	require.Error(t, err)
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Contains("a1"))

	//a retry persists once the write path is usable again
	require.NoError(t, os.Remove(blocker))
	require.NoError(t, s.Append([]models.SeenRecord{record("a1", "Acme")}))
	assert.Equal(t, 1, s.Count())

	reloaded := NewSeenStore(dir)
	assert.True(t, reloaded.Contains("a1"))
}

func TestSeenStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := NewSeenStore(dir)
	require.NoError(t, s.Append([]models.SeenRecord{record("a1", "Acme")}))

	_, err := os.Stat(filepath.Join(dir, seenFile+".tmp"))
	assert.True(t, os.IsNotExist(err))
}
