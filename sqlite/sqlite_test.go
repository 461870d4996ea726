package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/dekarrin/dbval"
	"github.com/dekarrin/dbval/dbconv"
	"github.com/stretchr/testify/assert"
)

func openMemory(t *testing.T) *sql.DB {
	db, err := Open(context.Background(), "", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func Test_Typeof_MatchesClass(t *testing.T) {
	testCases := []struct {
		name  string
		input dbval.Value
	}{
		{name: "null", input: dbval.Null()},
		{name: "integer", input: dbval.Integer(math.MinInt64)},
		{name: "real", input: dbval.Real(4.13)},
		{name: "text", input: dbval.Text("héllo")},
		{name: "empty text", input: dbval.Text("")},
		{name: "blob", input: dbval.Blob([]byte{0x00, 0xFF, 0x10})},
		{name: "empty blob", input: dbval.Blob(nil)},
		{name: "bytes adapter", input: dbconv.Bytes.Encode([]byte{})},
		{name: "bool adapter", input: dbconv.Bool.Encode(true)},
	}

	db := openMemory(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Typeof(context.Background(), db, tc.input)

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.input.Class(), actual)
		})
	}
}

func Test_Echo_RoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		input dbval.Value
	}{
		{name: "null", input: dbval.Null()},
		{name: "max integer", input: dbval.Integer(math.MaxInt64)},
		{name: "min integer", input: dbval.Integer(math.MinInt64)},
		{name: "real", input: dbval.Real(0.1)},
		{name: "text", input: dbval.Text("héllo")},
		{name: "text that looks like a number", input: dbval.Text("0413")},
		{name: "blob", input: dbval.Blob([]byte{0x00, 0xFF, 0x10})},
		{name: "empty text", input: dbval.Text("")},
		{name: "empty blob", input: dbval.Blob(nil)},
	}

	db := openMemory(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Echo(context.Background(), db, tc.input)

			if !assert.NoError(err) {
				return
			}
			assert.True(tc.input.Equal(actual), "expected %s, got %s", tc.input, actual)
		})
	}
}

func Test_WrapDBError(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		assert := assert.New(t)

		err := WrapDBError(sql.ErrNoRows, "get file")

		assert.ErrorIs(err, dbval.ErrNotFound)
		assert.ErrorIs(err, dbval.ErrDB)
		assert.Equal("get file: "+dbval.ErrNotFound.Error(), err.Error())
	})

	t.Run("other error kept", func(t *testing.T) {
		assert := assert.New(t)

		cause := errors.New("disk on fire")
		err := WrapDBError(cause)

		assert.ErrorIs(err, cause)
		assert.ErrorIs(err, dbval.ErrDB)
	})

	t.Run("constraint violation", func(t *testing.T) {
		assert := assert.New(t)
		ctx := context.Background()
		db := openMemory(t)

		_, err := db.ExecContext(ctx, `CREATE TABLE files (name TEXT NOT NULL PRIMARY KEY);`)
		if !assert.NoError(err) {
			return
		}
		_, err = db.ExecContext(ctx, `INSERT INTO files (name) VALUES (?);`, dbval.Text("a"))
		if !assert.NoError(err) {
			return
		}
		_, err = db.ExecContext(ctx, `INSERT INTO files (name) VALUES (?);`, dbval.Text("a"))

		assert.ErrorIs(WrapDBError(err), dbval.ErrConstraintViolation)
	})
}

func Test_Open_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "no-such-driver", ":memory:")
	assert.ErrorIs(t, err, dbval.ErrDB)
}
