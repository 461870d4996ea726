package dbval

// Convertible is implemented by types that can produce a storage value.
// StorageValue must be pure and deterministic: the same receiver always gives
// an Equal Value.
type Convertible interface {
	StorageValue() Value
}

// Decodable is implemented by pointers to types that can be rebuilt from a
// storage value. DecodeStorageValue sets the receiver and returns true if v
// holds something the type can represent. Otherwise it returns false and
// leaves the receiver unchanged. A false result is an expected outcome ("this
// value cannot be read as this type") and not an error; callers may go on to
// try another type.
type Decodable interface {
	DecodeStorageValue(v Value) bool
}

// Decode rebuilds a T from v. ok is false if v cannot be read as a T, in which
// case the zero T is returned.
//
//	b, ok := dbval.Decode[dbval.Bytes](v)
func Decode[T any, PT interface {
	*T
	Decodable
}](v Value) (T, bool) {
	var t T
	if !PT(&t).DecodeStorageValue(v) {
		var zero T
		return zero, false
	}
	return t, true
}

// StorageValue returns v itself, so that a Value can be used anywhere a
// Convertible is accepted.
func (v Value) StorageValue() Value {
	return v
}

// DecodeStorageValue sets v to other. It always succeeds.
func (v *Value) DecodeStorageValue(other Value) bool {
	*v = other
	return true
}

// Bytes is binary data stored as a BLOB. Conversion is verbatim in both
// directions.
type Bytes []byte

// StorageValue returns b as a BLOB. An empty or nil b is a zero-length BLOB.
func (b Bytes) StorageValue() Value {
	return Blob(b)
}

// DecodeStorageValue sets b to the contents of v if v is a BLOB. An empty BLOB
// decodes to an empty, non-nil Bytes.
func (b *Bytes) DecodeStorageValue(v Value) bool {
	data, ok := v.AsBlob()
	if !ok {
		return false
	}
	*b = data
	return true
}

// String is text stored as TEXT. Conversion is verbatim in both directions;
// no normalization, case folding or trimming is done.
type String string

// StorageValue returns s as TEXT. It panics if s is not valid UTF-8.
func (s String) StorageValue() Value {
	return Text(string(s))
}

// DecodeStorageValue sets s to the contents of v if v is TEXT.
func (s *String) DecodeStorageValue(v Value) bool {
	text, ok := v.AsText()
	if !ok {
		return false
	}
	*s = String(text)
	return true
}
