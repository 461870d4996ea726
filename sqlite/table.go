package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dekarrin/dbval"
	"github.com/dekarrin/rezi/v2"
)

// Row is one result row, one storage value per column.
type Row []dbval.Value

// Table is a set of rows together with their column names. It is the result of
// Query, and a snapshot of a whole table when Name is set.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// MarshalBinary encodes t with REZI.
func (t Table) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.MustEnc(t.Name)...)
	enc = append(enc, rezi.MustEnc(t.Columns)...)
	enc = append(enc, rezi.MustEnc(len(t.Rows))...)
	for _, r := range t.Rows {
		enc = append(enc, rezi.MustEnc(len(r))...)
		for _, v := range r {
			enc = append(enc, rezi.MustEnc(v)...)
		}
	}

	return enc, nil
}

// UnmarshalBinary decodes a Table previously encoded with MarshalBinary.
func (t *Table) UnmarshalBinary(data []byte) error {
	if t == nil {
		return fmt.Errorf("cannot unmarshal to nil Table")
	}

	rr, err := rezi.NewReader(bytes.NewBuffer(data), nil)
	if err != nil {
		return err
	}

	var decoded Table

	err = rr.Dec(&decoded.Name)
	if err != nil {
		return rezi.Wrapf(0, "name: %s", err)
	}

	err = rr.Dec(&decoded.Columns)
	if err != nil {
		return rezi.Wrapf(0, "columns: %s", err)
	}

	var rowCount int
	err = rr.Dec(&rowCount)
	if err != nil {
		return rezi.Wrapf(0, "row count: %s", err)
	}

	for i := 0; i < rowCount; i++ {
		var width int
		err = rr.Dec(&width)
		if err != nil {
			return rezi.Wrapf(0, fmt.Sprintf("row %d: width: %%s", i), err)
		}

		r := make(Row, width)
		for j := range r {
			err = rr.Dec(&r[j])
			if err != nil {
				return rezi.Wrapf(0, fmt.Sprintf("row %d: column %d: %%s", i, j), err)
			}
		}
		decoded.Rows = append(decoded.Rows, r)
	}

	*t = decoded
	return nil
}

// Query runs query and scans every column of every row into a dbval.Value.
func Query(ctx context.Context, db *sql.DB, query string, args ...interface{}) (Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return Table{}, WrapDBError(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Table{}, WrapDBError(err, "get columns")
	}

	result := Table{Columns: cols}

	for rows.Next() {
		r := make(Row, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range r {
			dest[i] = &r[i]
		}

		err := rows.Scan(dest...)
		if err != nil {
			return Table{}, WrapDBError(err, "scan row")
		}
		result.Rows = append(result.Rows, r)
	}

	if err := rows.Err(); err != nil {
		return Table{}, WrapDBError(err, "iterate rows")
	}

	return result, nil
}

// ReadTable reads every row of the named table exactly as it is stored.
//
// Drivers may convert values based on a column's declared type, such as TEXT
// in a DATETIME column coming back as a time.Time. Each column is therefore
// selected through unary plus, which leaves the value alone but drops the
// declared type.
func ReadTable(ctx context.Context, db *sql.DB, name string) (Table, error) {
	cols, err := tableColumns(ctx, db, name)
	if err != nil {
		return Table{}, err
	}

	selectList := make([]string, len(cols))
	for i := range cols {
		quoted := quoteIdent(cols[i])
		selectList[i] = "+" + quoted + " AS " + quoted
	}

	t, err := Query(ctx, db, `SELECT `+strings.Join(selectList, ", ")+` FROM `+quoteIdent(name)+`;`)
	if err != nil {
		return Table{}, err
	}
	t.Name = name
	return t, nil
}

func tableColumns(ctx context.Context, db *sql.DB, name string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT * FROM `+quoteIdent(name)+` LIMIT 0;`)
	if err != nil {
		return nil, WrapDBError(err, "read columns of ", name)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, WrapDBError(err, "read columns of ", name)
	}
	return cols, nil
}

// WriteTable inserts every row of t into the table named by t.Name, which must
// already exist. All rows are inserted in one transaction; on error none of
// them are kept.
func WriteTable(ctx context.Context, db *sql.DB, t Table) error {
	if t.Name == "" {
		return dbval.NewError("table has no name")
	}
	if len(t.Columns) < 1 {
		return dbval.NewError("table has no columns")
	}

	quotedCols := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i := range t.Columns {
		quotedCols[i] = quoteIdent(t.Columns[i])
		placeholders[i] = "?"
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s);`,
		quoteIdent(t.Name), strings.Join(quotedCols, ", "), strings.Join(placeholders, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return WrapDBError(err, "begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return WrapDBError(err, "prepare insert")
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		if len(r) != len(t.Columns) {
			return dbval.NewErrorf(nil, "row %d has %d values but table has %d columns", i, len(r), len(t.Columns))
		}

		args := make([]interface{}, len(r))
		for j := range r {
			args[j] = r[j]
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return WrapDBError(err, fmt.Sprintf("insert row %d", i))
		}
	}

	if err := tx.Commit(); err != nil {
		return WrapDBError(err, "commit")
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
