package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/shares"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the pool or a
// running transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Notes(db dbx.DBTX) notes.Repository
	Shares(db dbx.DBTX) shares.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
