// Package repomanager hands out repository instances bound to a DB handle.
// Services request repositories per call so the same repository code runs
// against *sql.DB or, inside dbx.WithTx, against *sql.Tx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskforge/internal/dbx"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/comments"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/metrics"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/projects"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskforge/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Projects(db dbx.DBTX) projects.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Comments(db dbx.DBTX) comments.Repository
	Metrics(db dbx.DBTX) metrics.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
