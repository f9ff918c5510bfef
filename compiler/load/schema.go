// Package load parses VPP binary-API definition files (.api.json) into an
// in-memory schema model and loads whole directory trees of them.
package load

// File is one parsed API definition file. It is immutable after parsing;
// the Tree that loaded it is its sole owner for the duration of a run.
type File struct {
	// Path is the source path the file was loaded from. Empty when the
	// file was parsed from a raw buffer.
	Path string

	// VlAPIVersion is the IDL version string, e.g. "0x3a1e4b7c".
	VlAPIVersion string

	// Options holds file-level options such as the semantic "version".
	Options map[string]string

	Aliases  []*Alias
	Enums    []*Enum
	Unions   []*Union
	Types    []*StructType
	Messages []*Message
	Services []*Service
	Imports  []string
}

// Message is a request, reply or event definition. The (Name, Crc) pair is
// its stable wire identifier and is unique across a well-formed corpus.
type Message struct {
	Name   string
	Crc    string // "0x" prefixed as found in the source
	Fields []*Field
}

// StructType is a composite wire type (the "types" section). Same shape as
// a message but carries no CRC and no capability contract.
type StructType struct {
	Name   string
	Fields []*Field
}

// Field is one field of a message, struct type or union.
type Field struct {
	Name  string
	CType string // wire type name, e.g. "u32" or "vl_api_address_t"

	// Size is nil for scalar fields.
	Size *FieldSize

	// Options holds legal-value annotations such as {"default": 4353}.
	// Informational only: it never changes the mapped type, it is carried
	// into generated code as a comment.
	Options map[string]any
}

// FieldSize describes an array or string length descriptor.
type FieldSize struct {
	// Fixed reports a compile-time length. When false the length is
	// carried at run time, optionally bounded by LengthField.
	Fixed bool

	// Length is the fixed element count. Zero for variable sizes.
	Length int

	// LengthField names the companion field holding the run-time length
	// of a variable-size field, when the schema declares one.
	LengthField string
}

// Enum is a named integer constant set with an explicit backing width.
type Enum struct {
	Name    string
	Backing string // backing wire type ("enumtype"), defaults to u32
	Flags   bool   // declared in the "enumflags" section
	Members []EnumMember
}

// EnumMember is one name/value pair of an enum.
type EnumMember struct {
	Name  string
	Value int64
}

// Union is a named overlay of typed members.
type Union struct {
	Name    string
	Members []*Field
}

// Alias binds a name to another wire type, optionally with a length.
type Alias struct {
	Name   string
	CType  string
	Length int // 0 when the alias is not an array
}

// Service pairs a request message with its reply and optional stream or
// event messages.
type Service struct {
	Request string
	Reply   string
	Stream  bool
	Events  []string
}
