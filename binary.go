package dbval

import (
	"bytes"
	"fmt"
	"math"

	"github.com/dekarrin/rezi/v2"
)

// MarshalBinary encodes v with REZI as its class followed by its payload. REAL
// payloads are written as their IEEE-754 bit pattern so that the encoding is
// exact.
func (v Value) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.MustEnc(int(v.class))...)

	switch v.class {
	case ClassInteger:
		enc = append(enc, rezi.MustEnc(v.i)...)
	case ClassReal:
		enc = append(enc, rezi.MustEnc(math.Float64bits(v.f))...)
	case ClassText:
		enc = append(enc, rezi.MustEnc(v.s)...)
	case ClassBlob:
		enc = append(enc, rezi.MustEnc([]byte(v.s))...)
	}

	return enc, nil
}

// UnmarshalBinary decodes a Value previously encoded with MarshalBinary.
func (v *Value) UnmarshalBinary(data []byte) error {
	rr, err := rezi.NewReader(bytes.NewBuffer(data), nil)
	if err != nil {
		return err
	}

	var class int
	err = rr.Dec(&class)
	if err != nil {
		return rezi.Wrapf(0, "class: %s", err)
	}

	var decoded Value

	switch StorageClass(class) {
	case ClassNull:
		decoded = Null()
	case ClassInteger:
		var i int64
		if err := rr.Dec(&i); err != nil {
			return rezi.Wrapf(0, "integer: %s", err)
		}
		decoded = Integer(i)
	case ClassReal:
		var bits uint64
		if err := rr.Dec(&bits); err != nil {
			return rezi.Wrapf(0, "real: %s", err)
		}
		decoded = Real(math.Float64frombits(bits))
	case ClassText:
		var s string
		if err := rr.Dec(&s); err != nil {
			return rezi.Wrapf(0, "text: %s", err)
		}
		decoded, err = NewText(s)
		if err != nil {
			return err
		}
	case ClassBlob:
		var b []byte
		if err := rr.Dec(&b); err != nil {
			return rezi.Wrapf(0, "blob: %s", err)
		}
		decoded = Blob(b)
	default:
		return fmt.Errorf("unknown storage class %d", class)
	}

	*v = decoded
	return nil
}
