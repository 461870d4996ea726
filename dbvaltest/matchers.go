// Package dbvaltest contains helpers for testing code that binds dbval values
// to statements.
//
// This file contains matchers to be used with DATA-DOG/go-sqlmock.
package dbvaltest

import (
	"database/sql/driver"
	"time"

	"github.com/dekarrin/dbval"
	"github.com/google/uuid"
)

// AnyOfClass is a DATA-DOG/go-sqlmock compatible matcher that matches any
// bound value whose storage class is Class.
type AnyOfClass struct {
	Class dbval.StorageClass
}

func (m AnyOfClass) Match(v driver.Value) bool {
	sv, err := dbval.FromNative(v)
	if err != nil {
		return false
	}
	return sv.Class() == m.Class
}

// AnyUUID is a DATA-DOG/go-sqlmock compatible matcher used for matching against
// any UUID that is bound as TEXT in its canonical form.
type AnyUUID struct{}

func (m AnyUUID) Match(v driver.Value) bool {
	strUUID, ok := v.(string)
	if !ok {
		return false
	}
	_, err := uuid.Parse(strUUID)
	return err == nil
}

// AnyTimestamp is a DATA-DOG/go-sqlmock compatible matcher used for matching
// against any time bound as an INTEGER unix timestamp.
//
// If Except is set, then it will match any time besides the given one. If
// After is set, it will match any time that comes after the given one. If
// Before is set, it will match any time that comes before the given one. These
// may be combined; if multiple are given, their conditions are AND'd together.
// Comparisons are done at a precision of one second.
type AnyTimestamp struct {
	Except *time.Time
	After  *time.Time
	Before *time.Time
}

func (m AnyTimestamp) Match(v driver.Value) bool {
	i, ok := v.(int64)
	if !ok {
		return false
	}
	t := time.Unix(i, 0)

	if m.Except != nil {
		if t.Unix() == m.Except.Unix() {
			return false
		}
	}
	if m.After != nil {
		if t.Unix() <= m.After.Unix() {
			return false
		}
	}
	if m.Before != nil {
		if t.Unix() >= m.Before.Unix() {
			return false
		}
	}

	return true
}
