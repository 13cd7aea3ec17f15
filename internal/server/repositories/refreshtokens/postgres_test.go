package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\s*\(user_id,\s*token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	findQ   = `(?s)^\s*SELECT\s+user_id,\s*token,\s*expires_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	deleteQ = `^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1$`
)

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour)

	mock.ExpectExec(insertQ).
		WithArgs("u1", "tok123", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "u1", "tok123", exp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(insertQ).
		WithArgs("u1", "tok456", exp).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), "u1", "tok456", exp)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		err     error
		wantErr func(error) bool
	}{
		{
			name: "found",
			rows: sqlmock.NewRows([]string{"user_id", "token", "expires_at"}).AddRow("u1", "tok123", time.Unix(1700000000, 0)),
		},
		{
			name:    "not found",
			err:     sql.ErrNoRows,
			wantErr: func(err error) bool { return errors.Is(err, common.ErrorNotFound) },
		},
		{
			name:    "db error",
			err:     errors.New("db err"),
			wantErr: func(err error) bool { return regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectQuery(findQ).WithArgs("tok123")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			got, err := repo.Find(context.Background(), "tok123")
			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.UserID != "u1" || got.Token != "tok123" || !got.Expires.Equal(time.Unix(1700000000, 0)) {
				t.Fatalf("unexpected row: %+v", got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).
		WithArgs("tok123").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "tok123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(deleteQ).
		WithArgs("tok123").
		WillReturnError(errors.New("db err"))

	err := repo.Delete(context.Background(), "tok123")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
