package load

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseError reports a file that failed structural parsing. Parse errors
// are never fatal to a run: the loader logs them and moves on.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load: parse failed: %v", e.Err)
	}
	return fmt.Sprintf("load: parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// rawFile is the JSON envelope of an .api.json file. The interesting
// sections are heterogeneous arrays and order-sensitive objects, so they
// are decoded in a second pass.
type rawFile struct {
	Types        []json.RawMessage `json:"types"`
	Messages     []json.RawMessage `json:"messages"`
	Unions       []json.RawMessage `json:"unions"`
	Enums        []json.RawMessage `json:"enums"`
	EnumFlags    []json.RawMessage `json:"enumflags"`
	Services     json.RawMessage   `json:"services"`
	Options      map[string]any    `json:"options"`
	Aliases      json.RawMessage   `json:"aliases"`
	VlAPIVersion string            `json:"vl_api_version"`
	Imports      []string          `json:"imports"`
}

// ParseFile parses one .api.json document. The path is recorded on the
// returned File and used in error messages only.
func ParseFile(path string, data []byte) (*File, error) {
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if raw.VlAPIVersion == "" {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("missing vl_api_version")}
	}
	f := &File{
		Path:         path,
		VlAPIVersion: raw.VlAPIVersion,
		Imports:      raw.Imports,
	}
	if len(raw.Options) > 0 {
		f.Options = make(map[string]string, len(raw.Options))
		for k, v := range raw.Options {
			f.Options[k] = fmt.Sprint(v)
		}
	}
	fail := func(section string, err error) (*File, error) {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%s: %w", section, err)}
	}
	for _, r := range raw.Types {
		t, err := parseStructType(r)
		if err != nil {
			return fail("types", err)
		}
		f.Types = append(f.Types, t)
	}
	for _, r := range raw.Messages {
		m, err := parseMessage(r)
		if err != nil {
			return fail("messages", err)
		}
		f.Messages = append(f.Messages, m)
	}
	for _, r := range raw.Unions {
		u, err := parseUnion(r)
		if err != nil {
			return fail("unions", err)
		}
		f.Unions = append(f.Unions, u)
	}
	for _, r := range raw.Enums {
		e, err := parseEnum(r, false)
		if err != nil {
			return fail("enums", err)
		}
		f.Enums = append(f.Enums, e)
	}
	for _, r := range raw.EnumFlags {
		e, err := parseEnum(r, true)
		if err != nil {
			return fail("enumflags", err)
		}
		f.Enums = append(f.Enums, e)
	}
	if len(raw.Aliases) > 0 {
		aliases, err := parseAliases(raw.Aliases)
		if err != nil {
			return fail("aliases", err)
		}
		f.Aliases = aliases
	}
	if len(raw.Services) > 0 {
		services, err := parseServices(raw.Services)
		if err != nil {
			return fail("services", err)
		}
		f.Services = services
	}
	return f, nil
}

// entry decodes one heterogeneous array entry ([name, member..., {meta}]).
func entry(raw json.RawMessage) (name string, rest []any, err error) {
	var parts []any
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("empty definition")
	}
	name, ok := parts[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("definition name is not a string")
	}
	return name, parts[1:], nil
}

// ParseMessage parses a single message definition array, e.g. when the
// generator runs in single-message mode.
func ParseMessage(data []byte) (*Message, error) {
	m, err := parseMessage(json.RawMessage(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return m, nil
}

// ParseStructType parses a single composite type definition array.
func ParseStructType(data []byte) (*StructType, error) {
	t, err := parseStructType(json.RawMessage(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return t, nil
}

func parseMessage(raw json.RawMessage) (*Message, error) {
	name, rest, err := entry(raw)
	if err != nil {
		return nil, err
	}
	m := &Message{Name: name}
	for _, p := range rest {
		switch v := p.(type) {
		case []any:
			fld, err := parseFieldParts(v)
			if err != nil {
				return nil, fmt.Errorf("message %s: %w", name, err)
			}
			m.Fields = append(m.Fields, fld)
		case map[string]any:
			if crc, ok := v["crc"].(string); ok {
				m.Crc = crc
			}
		default:
			return nil, fmt.Errorf("message %s: unexpected element %T", name, p)
		}
	}
	if m.Crc == "" {
		return nil, fmt.Errorf("message %s: missing crc", name)
	}
	return m, nil
}

func parseStructType(raw json.RawMessage) (*StructType, error) {
	name, rest, err := entry(raw)
	if err != nil {
		return nil, err
	}
	t := &StructType{Name: name}
	for _, p := range rest {
		switch v := p.(type) {
		case []any:
			fld, err := parseFieldParts(v)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", name, err)
			}
			t.Fields = append(t.Fields, fld)
		case map[string]any:
			// trailing metadata (crc) carries no information for types
		default:
			return nil, fmt.Errorf("type %s: unexpected element %T", name, p)
		}
	}
	return t, nil
}

// parseFieldParts decodes a field descriptor array: [ctype, name] for
// scalars, a trailing positive number for a fixed length, a zero for a
// variable length optionally followed by the bounding field name, and an
// optional trailing object with legal-value options.
func parseFieldParts(parts []any) (*Field, error) {
	if len(parts) < 2 {
		return nil, fmt.Errorf("field descriptor too short")
	}
	ctype, ok := parts[0].(string)
	if !ok {
		return nil, fmt.Errorf("field type is not a string")
	}
	name, ok := parts[1].(string)
	if !ok {
		return nil, fmt.Errorf("field name is not a string")
	}
	f := &Field{Name: name, CType: ctype}
	for _, p := range parts[2:] {
		switch v := p.(type) {
		case float64:
			if v > 0 {
				f.Size = &FieldSize{Fixed: true, Length: int(v)}
			} else {
				f.Size = &FieldSize{}
			}
		case string:
			if f.Size == nil {
				return nil, fmt.Errorf("field %s: length field without a size", name)
			}
			f.Size.LengthField = v
		case map[string]any:
			f.Options = v
		default:
			return nil, fmt.Errorf("field %s: unexpected element %T", name, p)
		}
	}
	return f, nil
}

func parseUnion(raw json.RawMessage) (*Union, error) {
	name, rest, err := entry(raw)
	if err != nil {
		return nil, err
	}
	u := &Union{Name: name}
	for _, p := range rest {
		switch v := p.(type) {
		case []any:
			fld, err := parseFieldParts(v)
			if err != nil {
				return nil, fmt.Errorf("union %s: %w", name, err)
			}
			u.Members = append(u.Members, fld)
		case map[string]any:
			// trailing metadata, not modeled
		default:
			return nil, fmt.Errorf("union %s: unexpected element %T", name, p)
		}
	}
	return u, nil
}

func parseEnum(raw json.RawMessage, flags bool) (*Enum, error) {
	name, rest, err := entry(raw)
	if err != nil {
		return nil, err
	}
	e := &Enum{Name: name, Backing: "u32", Flags: flags}
	for _, p := range rest {
		switch v := p.(type) {
		case []any:
			if len(v) != 2 {
				return nil, fmt.Errorf("enum %s: malformed member", name)
			}
			mname, ok := v[0].(string)
			if !ok {
				return nil, fmt.Errorf("enum %s: member name is not a string", name)
			}
			mval, ok := v[1].(float64)
			if !ok {
				return nil, fmt.Errorf("enum %s: member %s value is not a number", name, mname)
			}
			e.Members = append(e.Members, EnumMember{Name: mname, Value: int64(mval)})
		case map[string]any:
			if t, ok := v["enumtype"].(string); ok {
				e.Backing = t
			}
		default:
			return nil, fmt.Errorf("enum %s: unexpected element %T", name, p)
		}
	}
	return e, nil
}

// parseAliases decodes the aliases object preserving document order,
// which a plain map round-trip would lose.
func parseAliases(raw json.RawMessage) ([]*Alias, error) {
	var out []*Alias
	err := eachKey(raw, func(name string, dec *json.Decoder) error {
		var body struct {
			Type   string `json:"type"`
			Length int    `json:"length"`
		}
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("alias %s: %w", name, err)
		}
		out = append(out, &Alias{Name: name, CType: body.Type, Length: body.Length})
		return nil
	})
	return out, err
}

// parseServices decodes the services object preserving document order.
func parseServices(raw json.RawMessage) ([]*Service, error) {
	var out []*Service
	err := eachKey(raw, func(name string, dec *json.Decoder) error {
		var body struct {
			Reply  string   `json:"reply"`
			Stream bool     `json:"stream"`
			Events []string `json:"events"`
		}
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("service %s: %w", name, err)
		}
		out = append(out, &Service{Request: name, Reply: body.Reply, Stream: body.Stream, Events: body.Events})
		return nil
	})
	return out, err
}

// eachKey streams over a JSON object calling fn once per key in document
// order. fn must consume exactly the key's value from the decoder.
func eachKey(raw json.RawMessage, fn func(key string, dec *json.Decoder) error) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		if err := fn(key, dec); err != nil {
			return err
		}
	}
	return nil
}
