package attachments

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "note_id", "file_name", "file_type", "file_size", "storage_key", "uploaded_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`(?s)INSERT INTO attachments \(note_id, file_name, file_type, file_size, storage_key\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5\)\s+RETURNING`).
		WithArgs("n1", "photo.png", "image/png", int64(42), "notes/key").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("a1", "n1", "photo.png", "image/png", 42, "notes/key", now))

	a, err := repo.Create(context.Background(), &models.Attachment{
		NoteID: "n1", FileName: "photo.png", FileType: "image/png", FileSize: 42, StorageKey: "notes/key",
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, int64(42), a.FileSize)
}

func TestListByNote(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`WHERE note_id = \$1 ORDER BY uploaded_at$`).
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("a1", "n1", "a.txt", nil, 1, "k1", now).
			AddRow("a2", "n1", "b.png", "image/png", 2, "k2", now))

	got, err := repo.ListByNote(context.Background(), "n1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].FileType)
	assert.Equal(t, "k2", got[1].StorageKey)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE id = \$1 AND note_id = \$2$`).
		WithArgs("a9", "n1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "n1", "a9")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
