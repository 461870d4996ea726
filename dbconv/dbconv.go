// Package dbconv contains Converters for changing between native Go types and
// SQLite storage values.
//
// A Converter is the function-pair form of the dbval conversion protocol. It is
// used for types that dbval does not own, such as []byte, time.Time or
// uuid.UUID, and every Converter here delegates to the dbval primitive adapters
// rather than building storage values itself. Decoding a value of the wrong
// storage class gives ok == false, never an error.
package dbconv

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/dekarrin/dbval"
)

// Converter holds functions to convert a native value of type N to and from
// its storage value. FromStorage returns false when the value cannot be read
// as an N.
type Converter[N any] struct {
	ToStorage   func(N) dbval.Value
	FromStorage func(dbval.Value) (N, bool)
}

// Encode returns the storage value for n.
func (c Converter[N]) Encode(n N) dbval.Value {
	return c.ToStorage(n)
}

// Decode reads an N from v.
func (c Converter[N]) Decode(v dbval.Value) (N, bool) {
	return c.FromStorage(v)
}

// Arg returns a driver.Valuer that binds n as a statement parameter.
func (c Converter[N]) Arg(n N) driver.Valuer {
	return c.ToStorage(n)
}

// Dest returns an sql.Scanner that decodes a column into target. Scanning a
// value that cannot be read as an N fails with an error matching
// dbval.ErrDecodingFailure and leaves target unchanged.
func (c Converter[N]) Dest(target *N) sql.Scanner {
	return scanner[N]{conv: c, target: target}
}

type scanner[N any] struct {
	conv   Converter[N]
	target *N
}

func (s scanner[N]) Scan(src interface{}) error {
	var v dbval.Value
	if err := v.Scan(src); err != nil {
		return err
	}

	decoded, ok := s.conv.FromStorage(v)
	if !ok {
		return dbval.NewError(fmt.Sprintf("cannot read %s value as %T", v.Class(), decoded), dbval.ErrDecodingFailure)
	}

	*s.target = decoded
	return nil
}

// Of returns the Converter for a type that implements the dbval conversion
// protocol itself.
func Of[T dbval.Convertible, PT interface {
	*T
	dbval.Decodable
}]() Converter[T] {
	return Converter[T]{
		ToStorage: func(t T) dbval.Value {
			return t.StorageValue()
		},
		FromStorage: dbval.Decode[T, PT],
	}
}

// Bridge returns a Converter for N that converts to the canonical type C and
// lets canonical do the actual work. toCanonical and fromCanonical must be
// inverses for every valid N.
func Bridge[N, C any](toCanonical func(N) C, fromCanonical func(C) N, canonical Converter[C]) Converter[N] {
	return Converter[N]{
		ToStorage: func(n N) dbval.Value {
			return canonical.ToStorage(toCanonical(n))
		},
		FromStorage: func(v dbval.Value) (N, bool) {
			c, ok := canonical.FromStorage(v)
			if !ok {
				var zero N
				return zero, false
			}
			return fromCanonical(c), true
		},
	}
}

// Optional wraps c so that a nil pointer is stored as NULL and NULL reads back
// as nil. Any other value is passed to c. This is the only Converter that
// treats NULL as a successful read; with c alone, NULL is a mismatch.
func Optional[N any](c Converter[N]) Converter[*N] {
	return Converter[*N]{
		ToStorage: func(n *N) dbval.Value {
			if n == nil {
				return dbval.Null()
			}
			return c.ToStorage(*n)
		},
		FromStorage: func(v dbval.Value) (*N, bool) {
			if v.IsNull() {
				return nil, true
			}
			n, ok := c.FromStorage(v)
			if !ok {
				return nil, false
			}
			return &n, true
		},
	}
}

// FirstOf returns a Converter that encodes with the first of cs and decodes
// with the first of cs that can read the value. It panics if cs is empty.
func FirstOf[N any](cs ...Converter[N]) Converter[N] {
	if len(cs) < 1 {
		panic("dbconv: FirstOf needs at least one Converter")
	}

	chain := make([]Converter[N], len(cs))
	copy(chain, cs)

	return Converter[N]{
		ToStorage: chain[0].ToStorage,
		FromStorage: func(v dbval.Value) (N, bool) {
			for _, c := range chain {
				if n, ok := c.FromStorage(v); ok {
					return n, true
				}
			}
			var zero N
			return zero, false
		},
	}
}
