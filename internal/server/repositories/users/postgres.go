package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const userColumns = `id, email, username, password, created_at, updated_at, last_login, is_active`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &lastLogin, &u.IsActive); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Create inserts user and returns the stored row. A duplicate email yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, username, password)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, user.Email, user.Username, user.PasswordHash))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// TouchLastLogin stamps last_login with the current time.
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) (*models.User, error) {
	return r.queryOne(ctx, `UPDATE users SET last_login = now() WHERE id = $1 RETURNING `+userColumns, id)
}

func (r *PostgresRepository) UpdateUsername(ctx context.Context, id string, username string) (*models.User, error) {
	return r.queryOne(ctx, `UPDATE users SET username = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns, id, username)
}
