package dbval

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimestampFormat is the layout SQLite drivers use when writing a time.Time
// into a TEXT column. Scan uses it for drivers that hand back time.Time for
// columns declared as DATE, DATETIME or TIMESTAMP.
const TimestampFormat = "2006-01-02 15:04:05.999999999-07:00"

// Value returns v as a driver.Value: nil for NULL, int64 for INTEGER, float64
// for REAL, string for TEXT and []byte for BLOB. It never returns an error.
func (v Value) Value() (driver.Value, error) {
	switch v.class {
	case ClassInteger:
		return v.i, nil
	case ClassReal:
		return v.f, nil
	case ClassText:
		return v.s, nil
	case ClassBlob:
		return []byte(v.s), nil
	default:
		return nil, nil
	}
}

// Scan sets v from a value read out of a database row. It accepts every type a
// driver.Value may be. bool becomes INTEGER 0 or 1, and time.Time becomes TEXT
// in TimestampFormat. []byte is copied, so src may be reused by the driver.
//
// Scan fails with ErrInvalidUTF8 if src is a string that is not UTF-8, and
// with ErrUnsupportedType if src is of any other type.
func (v *Value) Scan(src interface{}) error {
	converted, err := fromDriverValue(src)
	if err != nil {
		return err
	}
	*v = converted
	return nil
}

// FromNative returns the storage value for a Go value. Convertible values are
// asked directly; anything else is first normalized by
// driver.DefaultParameterConverter, so all sizes of int and float as well as
// driver.Valuer implementations are accepted. uint64 values above the int64
// range are rejected.
func FromNative(x interface{}) (Value, error) {
	if c, ok := x.(Convertible); ok {
		return c.StorageValue(), nil
	}

	dv, err := driver.DefaultParameterConverter.ConvertValue(x)
	if err != nil {
		return Value{}, NewError(fmt.Sprintf("convert %T", x), err, ErrUnsupportedType)
	}

	return fromDriverValue(dv)
}

func fromDriverValue(src interface{}) (Value, error) {
	switch typed := src.(type) {
	case nil:
		return Null(), nil
	case int64:
		return Integer(typed), nil
	case float64:
		return Real(typed), nil
	case bool:
		if typed {
			return Integer(1), nil
		}
		return Integer(0), nil
	case string:
		v, err := NewText(typed)
		if err != nil {
			return Value{}, NewError("", err, ErrDecodingFailure)
		}
		return v, nil
	case []byte:
		return Blob(typed), nil
	case time.Time:
		return Text(typed.Format(TimestampFormat)), nil
	default:
		return Value{}, NewError(fmt.Sprintf("%T is not a driver value", src), ErrUnsupportedType)
	}
}
