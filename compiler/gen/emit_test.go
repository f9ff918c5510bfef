package gen

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vppapi/bindgen/compiler/load"
)

func sampleSchemaFile() *load.File {
	return &load.File{
		VlAPIVersion: "0x3a1e4b7c",
		Aliases: []*load.Alias{
			{Name: "mac_address", CType: "u8", Length: 6},
			{Name: "interface_index", CType: "u32"},
		},
		Enums: []*load.Enum{
			{Name: "vl_api_if_status_flags_t", Backing: "u16", Members: []load.EnumMember{
				{Name: "IF_STATUS_API_FLAG_ADMIN_UP", Value: 1},
				{Name: "IF_STATUS_API_FLAG_LINK_UP", Value: 2},
			}},
		},
		Unions: []*load.Union{
			{Name: "vl_api_address_union_t", Members: []*load.Field{
				{Name: "ip4", CType: "vl_api_ip4_address_t"},
				{Name: "ip6", CType: "vl_api_ip6_address_t"},
			}},
		},
		Types: []*load.StructType{
			{Name: "vl_api_thread_data_t", Fields: []*load.Field{
				{Name: "id", CType: "u32"},
				{Name: "name", CType: "u8", Size: &load.FieldSize{Fixed: true, Length: 64}},
			}},
		},
		Messages: []*load.Message{
			{Name: "sw_interface_dump", Crc: "0xaa610c27", Fields: []*load.Field{
				{Name: "_vl_msg_id", CType: "u16"},
				{Name: "client_index", CType: "u32"},
				{Name: "context", CType: "u32"},
				{Name: "flags", CType: "vl_api_if_status_flags_t"},
				{Name: "type", CType: "u32", Options: map[string]any{"default": float64(4353)}},
			}},
			{Name: "sw_interface_event", Crc: "0x2d3c95ee", Fields: []*load.Field{
				{Name: "context", CType: "u32"},
				{Name: "tag", CType: "string", Size: &load.FieldSize{}},
			}},
		},
	}
}

func newTestEmitter() *Emitter {
	reg := EnumRegistry{"IfStatusFlags": "u16"}
	return NewEmitter("vppapi", reg, zerolog.Nop())
}

func TestEmitFile(t *testing.T) {
	em := newTestEmitter()
	units := em.EmitFile("core/interface.api.json", sampleSchemaFile())
	require.Len(t, units, 1)
	assert.Equal(t, "interface.ba.go", units[0].Path)
	text := string(units[0].Text)

	t.Run("header and package", func(t *testing.T) {
		assert.Contains(t, text, "// Code generated by bindgen. DO NOT EDIT.")
		assert.Contains(t, text, "// source: core/interface.api.json")
		assert.Contains(t, text, "// vl_api_version: 0x3a1e4b7c")
		assert.Contains(t, text, "package vppapi")
	})

	t.Run("aliases", func(t *testing.T) {
		assert.Contains(t, text, "type MacAddress = [6]uint8")
		assert.Contains(t, text, "type InterfaceIndex = uint32")
	})

	t.Run("enum with backing width", func(t *testing.T) {
		assert.Contains(t, text, "type IfStatusFlags uint16")
		assert.Contains(t, text, "IfStatusApiFlagAdminUp IfStatusFlags = 1")
		assert.Contains(t, text, "IfStatusApiFlagLinkUp  IfStatusFlags = 2")
	})

	t.Run("tagged union", func(t *testing.T) {
		assert.Contains(t, text, "type AddressUnion struct")
		assert.Contains(t, text, "Tag uint8")
		assert.Contains(t, text, "Ip4 Ip4Address")
		assert.Contains(t, text, "Ip6 Ip6Address")
	})

	t.Run("composite type", func(t *testing.T) {
		assert.Contains(t, text, "type ThreadData struct")
		assert.Contains(t, text, "Name [64]uint8")
	})

	t.Run("message struct and contract", func(t *testing.T) {
		assert.Contains(t, text, "type SwInterfaceDump struct")
		assert.Contains(t, text, "VlMsgId")
		assert.Contains(t, text, `func (*SwInterfaceDump) MessageNameAndCrc() string { return "sw_interface_dump_aa610c27" }`)
		assert.Contains(t, text, "func (m *SwInterfaceDump) SetContext(context uint32) { m.Context = context }")
		assert.Contains(t, text, "func (m *SwInterfaceDump) SetClientIndex(clientIndex uint32) { m.ClientIndex = clientIndex }")
	})

	t.Run("absent client_index yields a no-op setter", func(t *testing.T) {
		assert.Contains(t, text, "func (*SwInterfaceEvent) SetClientIndex(uint32) {}")
		assert.Contains(t, text, "func (m *SwInterfaceEvent) SetContext(context uint32) { m.Context = context }")
	})

	t.Run("sized enum field", func(t *testing.T) {
		assert.Contains(t, text, "api.SizedEnum[IfStatusFlags, api.U16]")
	})

	t.Run("variable string field", func(t *testing.T) {
		assert.Contains(t, text, "api.VariableSizeString")
	})

	t.Run("reserved field name and options comment", func(t *testing.T) {
		assert.Contains(t, text, "Typ")
		assert.Contains(t, text, "// default=4353")
	})

	t.Run("wire tags", func(t *testing.T) {
		assert.Contains(t, text, "`vlapi:\"u32,name=context\"`")
		assert.Contains(t, text, "`vlapi:\"string,name=tag,varsize\"`")
	})

	t.Run("module function lists messages in order", func(t *testing.T) {
		assert.Contains(t, text, "func CoreInterfaceMessages() []api.Message")
		dump := `new(SwInterfaceDump)`
		event := `new(SwInterfaceEvent)`
		assert.Contains(t, text, dump)
		assert.Contains(t, text, event)
		assert.Less(t, indexOf(text, dump), indexOf(text, event))
	})
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestEmitFileDeterministic(t *testing.T) {
	em := newTestEmitter()
	first := em.EmitFile("core/interface.api.json", sampleSchemaFile())
	second := em.EmitFile("core/interface.api.json", sampleSchemaFile())
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Path, second[0].Path)
	assert.Equal(t, first[0].Text, second[0].Text, "emission must be byte-identical for identical inputs")
}

func TestEmitSingleDefinitions(t *testing.T) {
	em := newTestEmitter()

	t.Run("message", func(t *testing.T) {
		text := string(em.EmitMessage(&load.Message{
			Name: "control_ping",
			Crc:  "0x51077d14",
			Fields: []*load.Field{
				{Name: "client_index", CType: "u32"},
				{Name: "context", CType: "u32"},
			},
		}))
		assert.Contains(t, text, "type ControlPing struct")
		assert.Contains(t, text, `"control_ping_51077d14"`)
	})

	t.Run("struct type", func(t *testing.T) {
		text := string(em.EmitStructType(&load.StructType{
			Name:   "vl_api_address_t",
			Fields: []*load.Field{{Name: "af", CType: "u8"}},
		}))
		assert.Contains(t, text, "type Address struct")
		assert.Contains(t, text, "Af uint8")
	})
}
