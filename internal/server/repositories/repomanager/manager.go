package repomanager

import (
	"context"
	"database/sql"

	"github.com/gowear/gowear/internal/dbx"
	"github.com/gowear/gowear/internal/server/repositories/otps"
	"github.com/gowear/gowear/internal/server/repositories/products"
	"github.com/gowear/gowear/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repository code on a plain connection or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	OTPs(db dbx.DBTX) otps.Repository
	Products(db dbx.DBTX) products.Repository
}
