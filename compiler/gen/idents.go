package gen

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/vppapi/bindgen/compiler/load"
)

const (
	modulePath = "github.com/vppapi/bindgen"
	apiPkgPath = modulePath + "/api"
)

// wirePrimitives maps numeric wire tokens to their Go spellings. Anything
// outside this table and the vl_api_ naming convention passes through
// unchanged: the mapping is total and generation stays best-effort.
var wirePrimitives = map[string]string{
	"u8":     "uint8",
	"u16":    "uint16",
	"u32":    "uint32",
	"u64":    "uint64",
	"i8":     "int8",
	"i16":    "int16",
	"i32":    "int32",
	"i64":    "int64",
	"f32":    "float32",
	"f64":    "float64",
	"bool":   "bool",
	"string": "string",
}

// TypeIdent maps a wire type name to a generated type name. Custom types
// shed one vl_api_ prefix and one _t suffix and are upper-camel-cased;
// "string" maps to the generic text type; numeric primitives map to their
// Go spellings; everything else passes through unchanged.
func TypeIdent(ctype string) string {
	if strings.HasPrefix(ctype, "vl_api_") {
		return camelizeIdent(strings.TrimSuffix(strings.TrimPrefix(ctype, "vl_api_"), "_t"))
	}
	if t, ok := wirePrimitives[ctype]; ok {
		return t
	}
	return ctype
}

// FieldIdent maps a wire field name to a generated field name. The two
// reserved tokens get fixed substitutes, a single leading underscore is
// stripped, everything else passes through unchanged.
func FieldIdent(name string) string {
	switch name {
	case "type":
		return "typ"
	case "match":
		return "mach"
	}
	return strings.TrimPrefix(name, "_")
}

// EnumRegistry maps generated enum type names to their backing wire type.
// It is built once by a full pre-pass over every enum in the corpus and is
// read-only afterwards: a field may reference an enum declared in a file
// that has not been emitted yet.
type EnumRegistry map[string]string

// BuildEnumRegistry scans every enum of every loaded file. It must run to
// completion before any field is mapped.
func BuildEnumRegistry(t *load.Tree) EnumRegistry {
	reg := make(EnumRegistry)
	t.Each(func(_ string, f *load.File) {
		registerEnums(reg, f)
	})
	return reg
}

// registerEnums records the enums of a single file.
func registerEnums(reg EnumRegistry, f *load.File) {
	for _, e := range f.Enums {
		reg[TypeIdent(e.Name)] = e.Backing
	}
}

// widthMarker maps a backing wire type to the api package width marker of
// a sized enum. Unknown widths degrade to the default u32.
func widthMarker(backing string) string {
	switch backing {
	case "u8":
		return "U8"
	case "u16":
		return "U16"
	case "u64":
		return "U64"
	default:
		return "U32"
	}
}

// FieldType maps a field descriptor to its generated type. A size
// descriptor selects one of four container forms; a bare reference to a
// registered enum becomes a sized enum carrying its wire width; an enum
// with no registered width falls back to the plain type.
func FieldType(f *load.Field, reg EnumRegistry) string {
	base := TypeIdent(f.CType)
	if f.Size != nil {
		switch {
		case f.Size.Fixed && f.CType == "string":
			return fmt.Sprintf("[%d]byte", f.Size.Length)
		case f.Size.Fixed:
			return fmt.Sprintf("[%d]%s", f.Size.Length, base)
		case f.CType == "string":
			return "api.VariableSizeString"
		default:
			return "[]" + base
		}
	}
	if backing, ok := reg[base]; ok {
		return fmt.Sprintf("api.SizedEnum[%s, api.%s]", base, widthMarker(backing))
	}
	return base
}

// camelizeIdent upper-camel-cases an underscore-delimited identifier with
// a locale-agnostic character splitter.
func camelizeIdent(ident string) string {
	var b strings.Builder
	for _, part := range strings.Split(ident, "_") {
		for i, r := range part {
			if i == 0 {
				b.WriteString(strings.ToUpper(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Camelize is the general identifier transform for names not covered by
// TypeIdent, such as module names derived from file paths. It produces the
// same output as camelizeIdent on ASCII underscore-delimited input.
func Camelize(ident string) string {
	return inflect.Camelize(ident)
}
