package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTopScoresOrdering(t *testing.T) {
	db := openTestDB(t)
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.InsertScores([]HighScore{
		{Name: "low", Score: 100, Abducted: 1, CreatedAt: day},
		{Name: "first", Score: 500, Abducted: 5, CreatedAt: day},
		{Name: "second", Score: 500, Abducted: 5, CreatedAt: day},
		{Name: "mid", Score: 300, Abducted: 3},
	}))

	top, err := db.TopScores(3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "first", top[0].Name)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "second", top[1].Name)
	assert.Equal(t, "mid", top[2].Name)
	assert.Equal(t, 3, top[2].Rank)
	assert.Equal(t, day.Format(time.RFC3339), top[0].Date)
}

func TestTopScoresEmpty(t *testing.T) {
	db := openTestDB(t)
	top, err := db.TopScores(10)
	require.NoError(t, err)
	assert.Empty(t, top)
	assert.NotNil(t, top)
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, "", db.GetSetting("missing"))

	require.NoError(t, db.SetSetting("k", "v1"))
	require.NoError(t, db.SetSetting("k", "v2"))
	assert.Equal(t, "v2", db.GetSetting("k"))
}

func TestRecorderPersistsOnStop(t *testing.T) {
	db := openTestDB(t)
	r := NewScoreRecorder(db, zerolog.Nop())
	for i := 1; i <= 20; i++ {
		r.Submit(HighScore{Name: "p", Score: i * 10})
	}
	r.Stop()
	r.Stop()

	top, err := db.TopScores(50)
	require.NoError(t, err)
	assert.Len(t, top, 20)
	assert.Equal(t, 200, top[0].Score)
}

func TestRecorderWithoutDB(t *testing.T) {
	r := NewScoreRecorder(nil, zerolog.Nop())
	r.Submit(HighScore{Name: "ghost", Score: 1})
	r.Stop()
}

func TestSessionToRecorder(t *testing.T) {
	db := openTestDB(t)
	r := NewScoreRecorder(db, zerolog.Nop())
	s := NewSessionState(r, zerolog.Nop())
	s.Begin("Ace")
	s.HandleEvent(Event{Type: EventGameEnded, Score: 700, Abducted: 7, Frame: 99})
	r.Stop()

	top, err := db.TopScores(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Ace", top[0].Name)
	assert.Equal(t, 700, top[0].Score)
	assert.Equal(t, 7, top[0].Abducted)
}
