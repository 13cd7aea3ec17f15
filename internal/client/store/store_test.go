package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), client.DatabaseFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newNoteStore returns a store whose clock advances one second per call.
func newNoteStore(t *testing.T, db *sql.DB) *NoteStore {
	t.Helper()
	s := NewNoteStore(metadata.NewSQLiteRepository(db), logging.Nop{})
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}
