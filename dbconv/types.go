package dbconv

import (
	"bytes"
	"math"
	"net/mail"
	"time"

	"github.com/dekarrin/dbval"
	"github.com/google/uuid"
)

// Bytes stores byte slices as BLOBs, verbatim.
var Bytes = Converter[[]byte]{
	ToStorage: func(b []byte) dbval.Value {
		return dbval.Bytes(b).StorageValue()
	},
	FromStorage: func(v dbval.Value) ([]byte, bool) {
		b, ok := dbval.Decode[dbval.Bytes](v)
		return []byte(b), ok
	},
}

// String stores strings as TEXT, verbatim. Encoding a string that is not valid
// UTF-8 panics.
var String = Converter[string]{
	ToStorage: func(s string) dbval.Value {
		return dbval.String(s).StorageValue()
	},
	FromStorage: func(v dbval.Value) (string, bool) {
		s, ok := dbval.Decode[dbval.String](v)
		return string(s), ok
	},
}

// Buffer stores the unread portion of a bytes.Buffer as a BLOB by way of
// Bytes. A nil *bytes.Buffer is stored as an empty BLOB. Reading always gives a
// new Buffer.
var Buffer = Bridge(bufferToBytes, bytes.NewBuffer, Bytes)

func bufferToBytes(buf *bytes.Buffer) []byte {
	if buf == nil {
		return nil
	}
	return buf.Bytes()
}

// Runes stores rune slices as TEXT by way of String. Invalid code points are
// written as U+FFFD, so only slices of valid runes read back unchanged.
var Runes = Bridge(
	func(r []rune) string { return string(r) },
	func(s string) []rune { return []rune(s) },
	String,
)

// Int64 stores integers as INTEGER. It also reads a REAL that holds an
// integral value within the int64 range.
var Int64 = Converter[int64]{
	ToStorage: dbval.Integer,
	FromStorage: func(v dbval.Value) (int64, bool) {
		if i, ok := v.AsInteger(); ok {
			return i, true
		}

		f, ok := v.AsReal()
		if !ok || f != math.Trunc(f) || f < -0x1p63 || f >= 0x1p63 {
			return 0, false
		}
		return int64(f), true
	},
}

// Float64 stores floats as REAL. It also reads INTEGER, since SQLite may hand
// back an integer for a numeric expression.
var Float64 = Converter[float64]{
	ToStorage: dbval.Real,
	FromStorage: func(v dbval.Value) (float64, bool) {
		if f, ok := v.AsReal(); ok {
			return f, true
		}
		if i, ok := v.AsInteger(); ok {
			return float64(i), true
		}
		return 0, false
	},
}

// Bool stores booleans as INTEGER 1 or 0. Any non-zero INTEGER reads as true.
var Bool = Converter[bool]{
	ToStorage: func(b bool) dbval.Value {
		if b {
			return dbval.Integer(1)
		}
		return dbval.Integer(0)
	},
	FromStorage: func(v dbval.Value) (bool, bool) {
		i, ok := Int64.FromStorage(v)
		if !ok {
			return false, false
		}
		return i != 0, true
	},
}

// Timestamp converts times into 64-bit unix timestamps. Sub-second precision
// and the location are not kept; times read back are in the local zone.
var Timestamp = Converter[time.Time]{
	ToStorage: func(t time.Time) dbval.Value {
		return Int64.ToStorage(t.Unix())
	},
	FromStorage: func(v dbval.Value) (time.Time, bool) {
		i, ok := Int64.FromStorage(v)
		if !ok {
			return time.Time{}, false
		}
		return time.Unix(i, 0), true
	},
}

// UUID converts UUIDs to their canonical TEXT form. TEXT that does not parse
// as a UUID cannot be read.
var UUID = Converter[uuid.UUID]{
	ToStorage: func(u uuid.UUID) dbval.Value {
		return String.ToStorage(u.String())
	},
	FromStorage: func(v dbval.Value) (uuid.UUID, bool) {
		s, ok := String.FromStorage(v)
		if !ok {
			return uuid.UUID{}, false
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return uuid.UUID{}, false
		}
		return u, true
	},
}

// Email converts email addresses to TEXT. A nil address is stored as empty
// TEXT, and empty TEXT reads back as a nil address. TEXT that does not parse
// as an address cannot be read.
var Email = Converter[*mail.Address]{
	ToStorage: func(email *mail.Address) dbval.Value {
		if email == nil {
			return String.ToStorage("")
		}
		return String.ToStorage(email.Address)
	},
	FromStorage: func(v dbval.Value) (*mail.Address, bool) {
		s, ok := String.FromStorage(v)
		if !ok {
			return nil, false
		}
		if s == "" {
			return nil, true
		}

		email, err := mail.ParseAddress(s)
		if err != nil {
			return nil, false
		}
		return email, true
	},
}
