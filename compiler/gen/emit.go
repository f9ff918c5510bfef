package gen

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"

	"github.com/vppapi/bindgen/compiler/load"
)

// Unit is one generated artifact: target path relative to the output
// directory plus its text. Units accumulate across files within a run;
// later units targeting the same path overwrite earlier ones.
type Unit struct {
	Path string
	Text []byte
}

// Emitter renders schema files into generated Go source. Emission is
// purely functional over (file, registry): identical inputs produce
// byte-identical output, which reproducible builds rely on.
type Emitter struct {
	pkg  string
	reg  EnumRegistry
	log  zerolog.Logger
	tmpl *template.Template
}

// NewEmitter returns an emitter targeting the named generated package.
// The registry must already cover every enum of the corpus.
func NewEmitter(pkg string, reg EnumRegistry, log zerolog.Logger) *Emitter {
	e := &Emitter{pkg: pkg, reg: reg, log: log}
	e.tmpl = template.Must(template.New("bindgen").Funcs(template.FuncMap{
		"typeIdent":  TypeIdent,
		"msgIdent":   camelizeIdent,
		"fieldName":  exportedFieldName,
		"fieldType":  func(f *load.Field) string { return FieldType(f, reg) },
		"wireTag":    wireTag,
		"comment":    optionsComment,
		"memberName": memberName,
		"aliasIdent": camelizeIdent,
		"aliasType":  aliasType,
		"backing":    backingType,
		"nameAndCrc": nameAndCrc,
		"hasField":   hasField,
	}).Parse(sourceTemplate))
	return e
}

// ModuleName derives the synthetic module identifier of a schema file from
// its corpus-relative path: "core/interface.api.json" -> "CoreInterface".
func ModuleName(rel string) string {
	s := strings.TrimSuffix(path.Clean(strings.TrimPrefix(rel, "/")), ".api.json")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
	return Camelize(strings.Trim(s, "_"))
}

// unitPath derives the output file name of a schema file.
func unitPath(rel string) string {
	base := strings.TrimSuffix(path.Base(path.Clean(rel)), ".api.json")
	return base + ".ba.go"
}

type fileData struct {
	Package string
	Source  string
	Version string
	Module  string
	File    *load.File
}

// EmitFile renders one schema file into its generated units. rel is the
// corpus-relative source path used for the module name and output path.
func (e *Emitter) EmitFile(rel string, f *load.File) []Unit {
	var buf bytes.Buffer
	data := &fileData{
		Package: e.pkg,
		Source:  rel,
		Version: f.VlAPIVersion,
		Module:  ModuleName(rel),
		File:    f,
	}
	if err := e.tmpl.ExecuteTemplate(&buf, "file", data); err != nil {
		// Template execution over a parsed model cannot reference missing
		// data; treat a failure as a bug worth surfacing loudly.
		panic(fmt.Sprintf("gen: execute file template for %s: %v", rel, err))
	}
	return []Unit{{Path: unitPath(rel), Text: e.format(unitPath(rel), buf.Bytes())}}
}

// EmitStructType renders a standalone composite type definition.
func (e *Emitter) EmitStructType(t *load.StructType) []byte {
	return e.emitSingle("structType", "type "+t.Name, t)
}

// EmitMessage renders a standalone message definition.
func (e *Emitter) EmitMessage(m *load.Message) []byte {
	return e.emitSingle("message", "message "+m.Name, m)
}

func (e *Emitter) emitSingle(tmpl, source string, data any) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by bindgen. DO NOT EDIT.\n//\n// source: %s\n\npackage %s\n\nimport (\n\tapi %q\n)\n\n", source, e.pkg, apiPkgPath)
	if err := e.tmpl.ExecuteTemplate(&buf, tmpl, data); err != nil {
		panic(fmt.Sprintf("gen: execute %s template: %v", tmpl, err))
	}
	return e.format("single.go", buf.Bytes())
}

// format runs the emitted text through gofmt/goimports in memory, pruning
// the import block when unused. A formatting failure degrades to the
// unformatted text with a diagnostic rather than failing the run.
func (e *Emitter) format(name string, src []byte) []byte {
	out, err := imports.Process(name, src, nil)
	if err != nil {
		e.log.Warn().Str("unit", name).Err(err).Msg("emitted code failed formatting, writing unformatted")
		return src
	}
	return out
}

// exportedFieldName maps a wire field name to its exported Go spelling,
// applied after the reserved-token substitutions of FieldIdent.
func exportedFieldName(name string) string {
	return camelizeIdent(FieldIdent(name))
}

// memberName maps a SCREAMING_SNAKE enum member to an exported constant.
func memberName(name string) string {
	return camelizeIdent(strings.ToLower(name))
}

// nameAndCrc forms the stable wire identifier "name_crc".
func nameAndCrc(m *load.Message) string {
	return m.Name + "_" + strings.TrimPrefix(m.Crc, "0x")
}

// hasField reports whether the message declares a field with the given
// wire name. Setter generation keys on the name by convention, never on
// the declared type.
func hasField(m *load.Message, wireName string) bool {
	for _, f := range m.Fields {
		if f.Name == wireName {
			return true
		}
	}
	return false
}

// aliasType renders the aliased type, honoring an array length.
func aliasType(a *load.Alias) string {
	if a.Length > 0 {
		return fmt.Sprintf("[%d]%s", a.Length, TypeIdent(a.CType))
	}
	return TypeIdent(a.CType)
}

// backingType renders the Go type backing an enum.
func backingType(e *load.Enum) string {
	if t, ok := wirePrimitives[e.Backing]; ok {
		return t
	}
	return "uint32"
}

// wireTag renders the struct tag carrying the wire descriptor so the
// transport codec can recover it by reflection.
func wireTag(f *load.Field) string {
	var b strings.Builder
	b.WriteString("`vlapi:\"")
	b.WriteString(f.CType)
	b.WriteString(",name=")
	b.WriteString(f.Name)
	if f.Size != nil {
		switch {
		case f.Size.Fixed:
			fmt.Fprintf(&b, ",size=%d", f.Size.Length)
		case f.Size.LengthField != "":
			fmt.Fprintf(&b, ",varsize=%s", f.Size.LengthField)
		default:
			b.WriteString(",varsize")
		}
	}
	b.WriteString("\"`")
	return b.String()
}

// optionsComment renders the legal-value annotation of a field, if any.
// The annotation never changes the mapped type.
func optionsComment(f *load.Field) string {
	if len(f.Options) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f.Options))
	for k := range f.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f.Options[k]))
	}
	return " // " + strings.Join(parts, ", ")
}

const sourceTemplate = `
{{- define "alias" -}}
// {{aliasIdent .Name}} is the {{.Name}} alias.
type {{aliasIdent .Name}} = {{aliasType .}}
{{end}}

{{- define "enum" -}}
// {{typeIdent .Name}} is the {{.Name}} enum{{if .Flags}} (flags){{end}}, {{.Backing}} on the wire.
type {{typeIdent .Name}} {{backing .}}

const (
{{- $t := typeIdent .Name}}
{{- range .Members}}
	{{memberName .Name}} {{$t}} = {{.Value}}
{{- end}}
)
{{end}}

{{- define "union" -}}
// {{typeIdent .Name}} is the {{.Name}} tagged union.
type {{typeIdent .Name}} struct {
	Tag uint8
{{- range .Members}}
	{{fieldName .Name}} {{fieldType .}} {{wireTag .}}
{{- end}}
}
{{end}}

{{- define "structType" -}}
// {{typeIdent .Name}} is the {{.Name}} composite type.
type {{typeIdent .Name}} struct {
{{- range .Fields}}
	{{fieldName .Name}} {{fieldType .}} {{wireTag .}}{{comment .}}
{{- end}}
}
{{end}}

{{- define "message" -}}
{{- $m := msgIdent .Name -}}
// {{$m}} is the {{.Name}} message (crc {{.Crc}}).
type {{$m}} struct {
{{- range .Fields}}
	{{fieldName .Name}} {{fieldType .}} {{wireTag .}}{{comment .}}
{{- end}}
}

// MessageNameAndCrc returns the stable wire identifier of the message.
func (*{{$m}}) MessageNameAndCrc() string { return "{{nameAndCrc .}}" }

{{if hasField . "context" -}}
// SetContext stores the request/reply correlation context.
func (m *{{$m}}) SetContext(context uint32) { m.Context = context }
{{else -}}
// SetContext is a no-op: the message declares no context field.
func (*{{$m}}) SetContext(uint32) {}
{{end}}
{{if hasField . "client_index" -}}
// SetClientIndex stores the client index.
func (m *{{$m}}) SetClientIndex(clientIndex uint32) { m.ClientIndex = clientIndex }
{{else -}}
// SetClientIndex is a no-op: the message declares no client_index field.
func (*{{$m}}) SetClientIndex(uint32) {}
{{end}}
{{end}}

{{- define "file" -}}
// Code generated by bindgen. DO NOT EDIT.
//
// source: {{.Source}}
// vl_api_version: {{.Version}}

package {{.Package}}

import (
	api "github.com/vppapi/bindgen/api"
)

{{range .File.Aliases}}{{template "alias" .}}
{{end -}}
{{range .File.Enums}}{{template "enum" .}}
{{end -}}
{{range .File.Unions}}{{template "union" .}}
{{end -}}
{{range .File.Types}}{{template "structType" .}}
{{end -}}
{{range .File.Messages}}{{template "message" .}}
{{end -}}
// {{.Module}}Messages lists one value of every message type generated
// from this file, in declaration order.
func {{.Module}}Messages() []api.Message {
	return []api.Message{
{{- range .File.Messages}}
		new({{msgIdent .Name}}),
{{- end}}
	}
}
{{end -}}
`
