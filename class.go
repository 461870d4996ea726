package dbval

import (
	"fmt"
	"strings"
)

// StorageClass is one of the five kinds of value SQLite can persist. The zero
// value is ClassNull.
type StorageClass int

const (
	ClassNull StorageClass = iota
	ClassInteger
	ClassReal
	ClassText
	ClassBlob
)

// String returns the name SQLite's typeof() function gives the class.
func (sc StorageClass) String() string {
	switch sc {
	case ClassNull:
		return "null"
	case ClassInteger:
		return "integer"
	case ClassReal:
		return "real"
	case ClassText:
		return "text"
	case ClassBlob:
		return "blob"
	default:
		return fmt.Sprintf("StorageClass(%d)", int(sc))
	}
}

// ParseClass parses the name of a storage class as returned by SQLite's
// typeof(). Case is ignored.
func ParseClass(s string) (StorageClass, error) {
	switch strings.ToLower(s) {
	case "null":
		return ClassNull, nil
	case "integer":
		return ClassInteger, nil
	case "real":
		return ClassReal, nil
	case "text":
		return ClassText, nil
	case "blob":
		return ClassBlob, nil
	default:
		return ClassNull, fmt.Errorf("not a storage class: %q", s)
	}
}

// sortRank gives the position of the class in SQLite's cross-class ordering.
// INTEGER and REAL share a rank since they are compared numerically.
func (sc StorageClass) sortRank() int {
	switch sc {
	case ClassNull:
		return 0
	case ClassInteger, ClassReal:
		return 1
	case ClassText:
		return 2
	default:
		return 3
	}
}
