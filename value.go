// Package dbval converts values between native Go types and the storage
// classes of SQLite.
//
// The canonical representation is [Value], which holds exactly one of NULL,
// INTEGER, REAL, TEXT, or BLOB. Types take part in conversion by implementing
// [Convertible] and [Decodable]; decoding a Value as a type it does not hold
// reports false rather than an error, so callers can try another type. The
// dbconv sub-package provides converters for native types that dbval does not
// own, and the sqlite sub-package checks values against a real engine.
//
// All conversions are pure and safe for concurrent use.
package dbval

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is a single value of one of the SQLite storage classes. It is
// immutable; the zero value is NULL.
//
// Blob contents are held in a string so that no caller can mutate them after
// construction.
type Value struct {
	class StorageClass
	i     int64
	f     float64
	s     string
}

// Null returns the NULL value.
func Null() Value {
	return Value{}
}

// Integer returns an INTEGER value.
func Integer(i int64) Value {
	return Value{class: ClassInteger, i: i}
}

// Real returns a REAL value. The bit pattern of f is kept exactly.
func Real(f float64) Value {
	return Value{class: ClassReal, f: f}
}

// Text returns a TEXT value holding s. It panics if s is not valid UTF-8; use
// NewText when s comes from an untrusted source.
func Text(s string) Value {
	v, err := NewText(s)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// NewText returns a TEXT value holding s, or an error wrapping ErrInvalidUTF8
// if s is not valid UTF-8.
func NewText(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return Value{}, NewError("dbval: cannot make TEXT", ErrInvalidUTF8)
	}
	return Value{class: ClassText, s: s}, nil
}

// Blob returns a BLOB value holding a copy of b. A nil or empty b gives a
// zero-length BLOB, not NULL.
func Blob(b []byte) Value {
	return Value{class: ClassBlob, s: string(b)}
}

// Class returns the storage class of v.
func (v Value) Class() StorageClass {
	return v.class
}

// IsNull returns whether v is NULL.
func (v Value) IsNull() bool {
	return v.class == ClassNull
}

// AsInteger returns the payload of an INTEGER value.
func (v Value) AsInteger() (int64, bool) {
	if v.class != ClassInteger {
		return 0, false
	}
	return v.i, true
}

// AsReal returns the payload of a REAL value.
func (v Value) AsReal() (float64, bool) {
	if v.class != ClassReal {
		return 0, false
	}
	return v.f, true
}

// AsText returns the payload of a TEXT value.
func (v Value) AsText() (string, bool) {
	if v.class != ClassText {
		return "", false
	}
	return v.s, true
}

// AsBlob returns a copy of the payload of a BLOB value. The returned slice is
// never nil when ok is true.
func (v Value) AsBlob() ([]byte, bool) {
	if v.class != ClassBlob {
		return nil, false
	}
	return []byte(v.s), true
}

// Equal returns whether v and other have the same class and identical
// payloads. REAL payloads are compared bit for bit, so 0.0 and -0.0 differ and
// a NaN equals itself. Use Compare for SQL comparison semantics.
func (v Value) Equal(other Value) bool {
	if v.class != other.class {
		return false
	}

	switch v.class {
	case ClassInteger:
		return v.i == other.i
	case ClassReal:
		return math.Float64bits(v.f) == math.Float64bits(other.f)
	case ClassText, ClassBlob:
		return v.s == other.s
	default:
		return true
	}
}

// String returns v as an SQLite literal, for debugging.
func (v Value) String() string {
	switch v.class {
	case ClassInteger:
		return strconv.FormatInt(v.i, 10)
	case ClassReal:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case ClassText:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	case ClassBlob:
		return "X'" + strings.ToUpper(hex.EncodeToString([]byte(v.s))) + "'"
	default:
		return "NULL"
	}
}

// Compare orders a and b the way SQLite sorts values of mixed classes: NULL
// first, then INTEGER and REAL by numeric value, then TEXT by bytes (the
// BINARY collation), then BLOB by bytes. A NaN REAL sorts before every other
// number. The result is -1, 0 or +1.
func Compare(a, b Value) int {
	ra, rb := a.class.sortRank(), b.class.sortRank()
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch a.class {
	case ClassNull:
		return 0
	case ClassInteger:
		if b.class == ClassInteger {
			return compareInts(a.i, b.i)
		}
		return compareIntReal(a.i, b.f)
	case ClassReal:
		if b.class == ClassInteger {
			return -compareIntReal(b.i, a.f)
		}
		return compareReals(a.f, b.f)
	case ClassText:
		return strings.Compare(a.s, b.s)
	default:
		return bytes.Compare([]byte(a.s), []byte(b.s))
	}
}

func compareInts(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareReals(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareIntReal compares without converting i to float64, which would lose
// precision above 2^53.
func compareIntReal(i int64, f float64) int {
	if math.IsNaN(f) {
		return 1
	}
	if f >= 0x1p63 {
		return -1
	}
	if f < -0x1p63 {
		return 1
	}

	t := math.Trunc(f)
	if c := compareInts(i, int64(t)); c != 0 {
		return c
	}
	if f > t {
		return -1
	} else if f < t {
		return 1
	}
	return 0
}
