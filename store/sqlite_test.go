package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantio/verdant/estimate"
)

func openTestDB(t *testing.T) *DB {
	db, err := Open(filepath.Join(t.TempDir(), "decisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_RecordAndQuery(t *testing.T) {
	ass := assert.New(t)
	db := openTestDB(t)

	readings := estimate.Readings{SoilMoisture: 25, Temperature: 35, AirHumidity: 30}
	for step := 1; step <= 5; step++ {
		ass.NoError(db.RecordDecision(step, readings, float64(step)*10))
	}

	decisions, err := db.RecentDecisions(3)
	ass.NoError(err)
	ass.Len(decisions, 3)
	// newest first
	ass.Equal(5, decisions[0].Step)
	ass.Equal(50.0, decisions[0].Minutes)
	ass.Equal(readings, decisions[0].Readings)
	ass.NotEmpty(decisions[0].ID)
	ass.False(decisions[0].At.IsZero())
}

func TestDB_RecentDecisionsEmpty(t *testing.T) {
	ass := assert.New(t)
	db := openTestDB(t)

	decisions, err := db.RecentDecisions(10)
	ass.NoError(err)
	ass.Empty(decisions)
}

func TestOpen_MigrationIdempotent(t *testing.T) {
	ass := assert.New(t)
	path := filepath.Join(t.TempDir(), "decisions.db")

	db, err := Open(path)
	require.NoError(t, err)
	ass.NoError(db.RecordDecision(1, estimate.Readings{}, 0))
	ass.NoError(db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	decisions, err := db.RecentDecisions(10)
	ass.NoError(err)
	ass.Len(decisions, 1)
	ass.NoError(db.Close())
}
