package api

// Width marker types name the explicit integer width an enum occupies on
// the wire. The wire width of an enum is independent of how Go represents
// the enum's values, so generated fields carry it in the type.
type (
	U8  uint8
	U16 uint16
	U32 uint32
	U64 uint64
)

// Width constrains the width marker parameter of SizedEnum.
type Width interface {
	U8 | U16 | U32 | U64
}

// Enum constrains the value parameter of SizedEnum to generated enum types.
type Enum interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// SizedEnum pairs an enum value with its explicit wire width W. A field of
// enum type vl_api_foo_t backed by u16 is generated as
// SizedEnum[Foo, U16] so the codec knows to read and write two bytes
// regardless of Foo's underlying Go type.
type SizedEnum[T Enum, W Width] struct {
	Value T
}

// Bits reports the wire width in bits.
func (SizedEnum[T, W]) Bits() int {
	switch any(W(0)).(type) {
	case U8:
		return 8
	case U16:
		return 16
	case U32:
		return 32
	default:
		return 64
	}
}

// Set replaces the enum value and returns the container, so callers can
// write one-liners like msg.Flags = msg.Flags.Set(IfStatusApiFlagAdminUp).
func (e SizedEnum[T, W]) Set(v T) SizedEnum[T, W] {
	e.Value = v
	return e
}

// VariableSizeString is a wire string whose length is carried at run time
// rather than in the type.
type VariableSizeString string

// String returns the contained text.
func (s VariableSizeString) String() string { return string(s) }

// Len reports the run-time length in bytes.
func (s VariableSizeString) Len() int { return len(s) }
