package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vppapi/bindgen/compiler/load"
)

func TestTypeIdent(t *testing.T) {
	t.Run("strips one prefix and one suffix and camelizes", func(t *testing.T) {
		assert.Equal(t, "SwInterface", TypeIdent("vl_api_sw_interface_t"))
		assert.Equal(t, "Ip4Address", TypeIdent("vl_api_ip4_address_t"))
	})

	t.Run("string maps to the generic text type", func(t *testing.T) {
		assert.Equal(t, "string", TypeIdent("string"))
	})

	t.Run("numeric primitives map to Go spellings", func(t *testing.T) {
		assert.Equal(t, "uint32", TypeIdent("u32"))
		assert.Equal(t, "int8", TypeIdent("i8"))
		assert.Equal(t, "float64", TypeIdent("f64"))
		assert.Equal(t, "bool", TypeIdent("bool"))
	})

	t.Run("unknown tokens pass through unchanged", func(t *testing.T) {
		assert.Equal(t, "u128", TypeIdent("u128"))
		assert.Equal(t, "weird", TypeIdent("weird"))
	})
}

func TestFieldIdent(t *testing.T) {
	assert.Equal(t, "typ", FieldIdent("type"))
	assert.Equal(t, "mach", FieldIdent("match"))
	assert.Equal(t, "foo", FieldIdent("_foo"))
	assert.Equal(t, "bar", FieldIdent("bar"))
	// exactly one leading underscore is stripped
	assert.Equal(t, "_internal", FieldIdent("__internal"))
}

func TestCamelizeStrategies(t *testing.T) {
	// the character splitter and the case-conversion library must agree on
	// ASCII underscore-delimited input
	for _, in := range []string{"sw_interface", "ip4_address", "l2_fib", "memif_socket_filename", "plain"} {
		assert.Equal(t, camelizeIdent(in), Camelize(in), "input %q", in)
	}
}

func field(ctype string, size *load.FieldSize) *load.Field {
	return &load.Field{Name: "f", CType: ctype, Size: size}
}

func TestFieldType(t *testing.T) {
	reg := EnumRegistry{"IfStatusFlags": "u16"}

	t.Run("scalars", func(t *testing.T) {
		assert.Equal(t, "uint32", FieldType(field("u32", nil), reg))
		assert.Equal(t, "SwInterface", FieldType(field("vl_api_sw_interface_t", nil), reg))
		assert.Equal(t, "string", FieldType(field("string", nil), reg))
	})

	t.Run("four container forms", func(t *testing.T) {
		assert.Equal(t, "[]uint8", FieldType(field("u8", &load.FieldSize{}), reg))
		assert.Equal(t, "api.VariableSizeString", FieldType(field("string", &load.FieldSize{}), reg))
		assert.Equal(t, "[6]uint8", FieldType(field("u8", &load.FieldSize{Fixed: true, Length: 6}), reg))
		assert.Equal(t, "[64]byte", FieldType(field("string", &load.FieldSize{Fixed: true, Length: 64}), reg))
	})

	t.Run("registered enum becomes a sized enum", func(t *testing.T) {
		got := FieldType(field("vl_api_if_status_flags_t", nil), reg)
		assert.Equal(t, "api.SizedEnum[IfStatusFlags, api.U16]", got)
	})

	t.Run("unregistered enum falls back to the plain type", func(t *testing.T) {
		got := FieldType(field("vl_api_unknown_enum_t", nil), reg)
		assert.Equal(t, "UnknownEnum", got)
	})

	t.Run("sized enum reference inside an array keeps the array form", func(t *testing.T) {
		got := FieldType(field("vl_api_if_status_flags_t", &load.FieldSize{}), reg)
		assert.Equal(t, "[]IfStatusFlags", got)
	})
}

func TestBuildEnumRegistry(t *testing.T) {
	tr := load.NewTree()
	// the enum lives in a file loaded after the message that references it
	tr.Add("b.api.json", &load.File{
		Messages: []*load.Message{{Name: "m", Crc: "0x1", Fields: []*load.Field{
			{Name: "flags", CType: "vl_api_if_status_flags_t"},
		}}},
	})
	tr.Add("z_types.api.json", &load.File{
		Enums: []*load.Enum{{Name: "vl_api_if_status_flags_t", Backing: "u8"}},
	})

	reg := BuildEnumRegistry(tr)
	require.Contains(t, reg, "IfStatusFlags")
	assert.Equal(t, "u8", reg["IfStatusFlags"])

	// declaration order between enum and referencing message cannot matter
	// once the full-corpus scan has run
	got := FieldType(tr.Get("b.api.json").Messages[0].Fields[0], reg)
	assert.Equal(t, "api.SizedEnum[IfStatusFlags, api.U8]", got)
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "CoreInterface", ModuleName("core/interface.api.json"))
	assert.Equal(t, "InterfaceTypes", ModuleName("interface_types.api.json"))
	assert.Equal(t, "VnetIp4Address", ModuleName("vnet/ip4-address.api.json"))
}
