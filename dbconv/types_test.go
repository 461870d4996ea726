package dbconv

import (
	"bytes"
	"math"
	"net/mail"
	"testing"
	"time"

	"github.com/dekarrin/dbval"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_Bytes(t *testing.T) {
	assert := assert.New(t)

	v := Bytes.Encode([]byte{0x00, 0xFF, 0x10})
	assert.True(dbval.Blob([]byte{0x00, 0xFF, 0x10}).Equal(v))

	actual, ok := Bytes.Decode(v)
	assert.True(ok)
	assert.Equal([]byte{0x00, 0xFF, 0x10}, actual)

	_, ok = String.Decode(v)
	assert.False(ok, "BLOB decoded as string")
}

func Test_String(t *testing.T) {
	assert := assert.New(t)

	v := String.Encode("héllo")
	assert.Equal(dbval.ClassText, v.Class())

	actual, ok := String.Decode(v)
	assert.True(ok)
	assert.Equal("héllo", actual)

	_, ok = Bytes.Decode(v)
	assert.False(ok, "TEXT decoded as bytes")
}

func Test_CrossAdapterRejection(t *testing.T) {
	ints := []int64{0, 1, -1, 413, math.MaxInt64, math.MinInt64}

	for _, x := range ints {
		v := dbval.Integer(x)

		_, ok := Bytes.Decode(v)
		assert.False(t, ok, "Bytes decoded INTEGER %d", x)
		_, ok = String.Decode(v)
		assert.False(t, ok, "String decoded INTEGER %d", x)
		_, ok = Buffer.Decode(v)
		assert.False(t, ok, "Buffer decoded INTEGER %d", x)
		_, ok = Runes.Decode(v)
		assert.False(t, ok, "Runes decoded INTEGER %d", x)
	}
}

func Test_Buffer_Bridge(t *testing.T) {
	testCases := []struct {
		name  string
		input []byte
	}{
		{name: "scenario bytes", input: []byte{0x00, 0xFF, 0x10}},
		{name: "empty", input: []byte{}},
		{name: "not utf-8", input: []byte("\xc3\x28")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			buf := bytes.NewBuffer(tc.input)

			viaBridge := Buffer.Encode(buf)
			direct := Bytes.Encode(tc.input)
			assert.True(direct.Equal(viaBridge), "bridge and canonical encodings differ")

			actual, ok := Buffer.Decode(viaBridge)
			if !assert.True(ok) || !assert.NotNil(actual) {
				return
			}
			assert.Equal(len(tc.input), actual.Len())
			assert.True(bytes.Equal(tc.input, actual.Bytes()), "expected %x, got %x", tc.input, actual.Bytes())
		})
	}

	t.Run("unread portion only", func(t *testing.T) {
		assert := assert.New(t)

		buf := bytes.NewBufferString("skipped:kept")
		buf.Next(len("skipped:"))

		blob, _ := Buffer.Encode(buf).AsBlob()
		assert.Equal([]byte("kept"), blob)
	})

	t.Run("nil buffer is empty blob", func(t *testing.T) {
		assert := assert.New(t)

		v := Buffer.Encode(nil)
		assert.Equal(dbval.ClassBlob, v.Class())

		actual, ok := Buffer.Decode(v)
		assert.True(ok)
		assert.NotNil(actual)
		assert.Equal(0, actual.Len())
	})
}

func Test_Runes_Bridge(t *testing.T) {
	testCases := []struct {
		name  string
		input []rune
	}{
		{name: "scenario text", input: []rune("héllo")},
		{name: "astral plane", input: []rune{0x1F980, 'x'}},
		{name: "empty", input: []rune{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			viaBridge := Runes.Encode(tc.input)
			direct := String.Encode(string(tc.input))
			assert.True(direct.Equal(viaBridge), "bridge and canonical encodings differ")

			actual, ok := Runes.Decode(viaBridge)
			if !assert.True(ok) {
				return
			}
			assert.Equal(string(tc.input), string(actual))
			assert.Len(actual, len(tc.input))
		})
	}

	t.Run("surrogate half is replaced", func(t *testing.T) {
		v := Runes.Encode([]rune{0xD800})
		s, _ := v.AsText()
		assert.Equal(t, "�", s)
	})
}

func Test_Int64(t *testing.T) {
	testCases := []struct {
		name     string
		input    dbval.Value
		expect   int64
		expectOK bool
	}{
		{name: "integer", input: dbval.Integer(-413), expect: -413, expectOK: true},
		{name: "integral real", input: dbval.Real(8), expect: 8, expectOK: true},
		{name: "fractional real", input: dbval.Real(8.5)},
		{name: "real out of range", input: dbval.Real(1e19)},
		{name: "NaN", input: dbval.Real(math.NaN())},
		{name: "text number", input: dbval.Text("8")},
		{name: "null", input: dbval.Null()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, ok := Int64.Decode(tc.input)

			assert.Equal(tc.expectOK, ok)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Float64(t *testing.T) {
	assert := assert.New(t)

	v := Float64.Encode(0.1)
	assert.Equal(dbval.ClassReal, v.Class())

	f, ok := Float64.Decode(v)
	assert.True(ok)
	assert.Equal(math.Float64bits(0.1), math.Float64bits(f))

	f, ok = Float64.Decode(dbval.Integer(3))
	assert.True(ok)
	assert.Equal(3.0, f)

	_, ok = Float64.Decode(dbval.Text("3"))
	assert.False(ok)
}

func Test_Bool(t *testing.T) {
	testCases := []struct {
		name     string
		input    dbval.Value
		expect   bool
		expectOK bool
	}{
		{name: "one", input: dbval.Integer(1), expect: true, expectOK: true},
		{name: "zero", input: dbval.Integer(0), expect: false, expectOK: true},
		{name: "other non-zero", input: dbval.Integer(-2), expect: true, expectOK: true},
		{name: "text true", input: dbval.Text("true")},
		{name: "null", input: dbval.Null()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, ok := Bool.Decode(tc.input)

			assert.Equal(tc.expectOK, ok)
			assert.Equal(tc.expect, actual)
		})
	}

	assert.True(t, dbval.Integer(1).Equal(Bool.Encode(true)))
	assert.True(t, dbval.Integer(0).Equal(Bool.Encode(false)))
}

func Test_Timestamp(t *testing.T) {
	testCases := []struct {
		name   string
		input  time.Time
		expect int64
	}{
		{
			name:   "normal",
			input:  time.Date(2009, 4, 13, 16, 13, 1, 0, time.UTC),
			expect: 1239639181,
		},
		{
			name:   "negative timestamp",
			input:  time.Date(1969, 12, 25, 4, 13, 0, 0, time.UTC),
			expect: -589620,
		},
		{
			name:   "sub-second precision dropped",
			input:  time.Date(2009, 4, 13, 16, 13, 1, 999, time.UTC),
			expect: 1239639181,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v := Timestamp.Encode(tc.input)
			i, ok := v.AsInteger()
			assert.True(ok)
			assert.Equal(tc.expect, i)

			actual, ok := Timestamp.Decode(v)
			assert.True(ok)
			assert.Equal(tc.input.Truncate(time.Second).Format(time.RFC3339), actual.UTC().Format(time.RFC3339))
		})
	}

	_, ok := Timestamp.Decode(dbval.Text("2009-04-13"))
	assert.False(t, ok)
}

func Test_UUID(t *testing.T) {
	assert := assert.New(t)

	id := uuid.MustParse("284968fa-1ec3-4d69-9a89-a6bbe60d2883")

	v := UUID.Encode(id)
	s, ok := v.AsText()
	assert.True(ok)
	assert.Equal("284968fa-1ec3-4d69-9a89-a6bbe60d2883", s)

	actual, ok := UUID.Decode(v)
	assert.True(ok)
	assert.Equal(id, actual)

	_, ok = UUID.Decode(dbval.Text("not-a-uuid"))
	assert.False(ok, "malformed TEXT decoded")

	_, ok = UUID.Decode(dbval.Blob(id[:]))
	assert.False(ok, "BLOB decoded")
}

func Test_Email(t *testing.T) {
	testCases := []struct {
		name     string
		input    dbval.Value
		expect   *mail.Address
		expectOK bool
	}{
		{
			name:     "address",
			input:    dbval.Text("test@example.com"),
			expect:   &mail.Address{Address: "test@example.com"},
			expectOK: true,
		},
		{name: "empty is nil", input: dbval.Text(""), expectOK: true},
		{name: "malformed", input: dbval.Text("not an email")},
		{name: "null", input: dbval.Null()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, ok := Email.Decode(tc.input)

			assert.Equal(tc.expectOK, ok)
			assert.Equal(tc.expect, actual)
		})
	}

	assert.True(t, dbval.Text("").Equal(Email.Encode(nil)))
}
