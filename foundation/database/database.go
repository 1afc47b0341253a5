// Package database opens the postgres connection and wraps the sqlx patterns shared by the data packages
package database

import (
	"context"
	"log"
	"net/url"

	_ "github.com/jackc/pgx/stdlib"
	"github.com/jmoiron/sqlx"
)

// Config is the required properties to use the database.
type Config struct {
	User         string
	Password     string
	Host         string
	Name         string
	DisableTLS   bool
	MaxOpenConns int
}

// connectionURL builds the postgres url for cfg. Sessions use Korean time so date casts match store dates.
func connectionURL(cfg Config) string {
	sslMode := "require"
	if cfg.DisableTLS {
		sslMode = "disable"
	}

	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "Asia/Seoul")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host,
		Path:     cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open connects to the database described by cfg
func Open(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", connectionURL(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

// StatusCheck returns nil if it can successfully talk to the database
func StatusCheck(ctx context.Context, db *sqlx.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	var ok bool
	return db.QueryRowContext(ctx, "select true").Scan(&ok)
}

// QueryNamed binds the named parameters in statement from args, expanding slice arguments for "in" clauses,
// and runs the rebound query
func QueryNamed(db *sqlx.DB, statement string, args map[string]interface{}) (*sqlx.Rows, error) {
	query, queryArgs, err := sqlx.Named(statement, args)
	if err != nil {
		return nil, err
	}
	query, queryArgs, err = sqlx.In(query, queryArgs...)
	if err != nil {
		return nil, err
	}
	return db.Queryx(db.Rebind(query), queryArgs...)
}

// Transact runs txFunc inside a transaction, committing when it returns nil and rolling back otherwise
func Transact(log *log.Logger, db *sqlx.DB, txFunc func(*sqlx.Tx) error) (err error) {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Printf("Received error while attempting to rollback transaction. error:%v", rollbackErr)
			}
			return
		}
		err = tx.Commit()
	}()
	return txFunc(tx)
}
