// Package sqlite connects dbval to a real SQLite engine. It can open a
// database, ask the engine how it classifies a bound value, and copy whole
// tables into and out of storage values.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dekarrin/dbval"
	"modernc.org/sqlite"
)

// DefaultDriver is the database/sql driver name registered by
// modernc.org/sqlite.
const DefaultDriver = "sqlite"

// Open opens the database at dsn with the named driver and checks that it can
// be reached. If driverName is empty, DefaultDriver is used. The caller is
// responsible for registering any other driver.
func Open(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	if driverName == "" {
		driverName = DefaultDriver
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, WrapDBError(err, "open ", dsn)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, WrapDBError(err, "connect to ", dsn)
	}

	return db, nil
}

// WrapDBError wraps an error from the SQLite engine into a dbval.Error that
// has dbval.ErrDB as one of its causes. Constraint failures additionally match
// dbval.ErrConstraintViolation and sql.ErrNoRows matches dbval.ErrNotFound.
// It should be called on any error returned from SQLite before it is passed
// back to a caller.
//
// msg, if provided, is used to create the msg of the error by calling
// fmt.Sprint.
func WrapDBError(err error, msg ...interface{}) error {
	var errMsg string
	if len(msg) > 0 {
		errMsg = fmt.Sprint(msg...)
	}

	return dbval.NewError(errMsg, convertDBError(err), dbval.ErrDB)
}

func convertDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		primaryCode := sqliteErr.Code() & 0xff
		if primaryCode == 19 {
			// preserve the error message for constraints violations
			return dbval.NewError(err.Error(), dbval.ErrConstraintViolation)
		}
		if primaryCode == 1 {
			// this is a generic error and thus the string is not descriptive,
			// so preserve the original error instead
			return err
		}
		return dbval.NewError(sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dbval.ErrNotFound
	}
	return err
}

// Typeof binds v as a parameter and returns the storage class the engine
// reports for it.
func Typeof(ctx context.Context, db *sql.DB, v dbval.Value) (dbval.StorageClass, error) {
	var name string
	err := db.QueryRowContext(ctx, `SELECT typeof(?)`, v).Scan(&name)
	if err != nil {
		return dbval.ClassNull, WrapDBError(err, "typeof")
	}

	return dbval.ParseClass(name)
}

// Echo binds v as a parameter and selects it straight back, giving the value
// as the engine returns it.
func Echo(ctx context.Context, db *sql.DB, v dbval.Value) (dbval.Value, error) {
	var out dbval.Value
	err := db.QueryRowContext(ctx, `SELECT ?`, v).Scan(&out)
	if err != nil {
		return dbval.Null(), WrapDBError(err, "echo")
	}
	return out, nil
}
