package deps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// SchemeKind distinguishes the two shapes a dependency scheme can take.
type SchemeKind int

const (
	// SchemeKindPlain is a plain string such as "movedemo-ea:1.0.0".
	SchemeKindPlain SchemeKind = iota
	// SchemeKindStructured is a table such as {addr = "0x2", chain = "sui/devnet"}.
	SchemeKindStructured
)

func (k SchemeKind) String() string {
	switch k {
	case SchemeKindPlain:
		return "plain"
	case SchemeKindStructured:
		return "structured"
	default:
		return fmt.Sprintf("SchemeKind(%d)", int(k))
	}
}

// Field is one key/value pair of a structured scheme.
// Value is whatever the manifest decoder produced and is never interpreted.
type Field struct {
	Key   string
	Value any
}

// Scheme is an opaque addressing token that identifies a package to the registry.
//
// A Scheme is either a plain string or an ordered table of fields. Only the
// registry knows how to interpret either form; movey passes both through
// unchanged. Table fields are ordered by key so that a Scheme built from an
// unordered map always has the same representation.
//
// The zero value is an empty plain scheme.
type Scheme struct {
	kind   SchemeKind
	plain  string
	fields []Field
}

// PlainScheme returns a plain string scheme.
func PlainScheme(s string) Scheme {
	return Scheme{kind: SchemeKindPlain, plain: s}
}

// StructuredScheme returns a table scheme holding fields ordered by key.
func StructuredScheme(fields map[string]any) Scheme {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: fields[k]})
	}
	return Scheme{kind: SchemeKindStructured, fields: out}
}

// Kind reports whether the scheme is plain or structured.
func (s Scheme) Kind() SchemeKind { return s.kind }

// IsZero reports whether s carries no addressing information.
func (s Scheme) IsZero() bool {
	return s.kind == SchemeKindPlain && s.plain == ""
}

// Fields returns a copy of the table fields. Plain schemes have none.
func (s Scheme) Fields() []Field {
	return slices.Clone(s.fields)
}

// Field returns the value stored under key in a structured scheme.
func (s Scheme) Field(key string) (any, bool) {
	for _, f := range s.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the plain text, or the canonical compact JSON of a table.
func (s Scheme) String() string {
	if s.kind == SchemeKindPlain {
		return s.plain
	}
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", s.fields)
	}
	return string(data)
}

// ID returns the identifier the registry is expected to echo back in a
// resolved record's scheme field.
//
//   - plain "movedemo-ea:1.0.0" → "movedemo-ea" (text before the last ':')
//   - table with namespace → the namespace
//   - table with addr → addr, or addr@chain when chain is present
//   - anything else → String()
func (s Scheme) ID() string {
	if s.kind == SchemeKindPlain {
		if i := strings.LastIndex(s.plain, ":"); i > 0 {
			return s.plain[:i]
		}
		return s.plain
	}
	if ns, ok := s.stringField("namespace"); ok {
		return ns
	}
	if addr, ok := s.stringField("addr"); ok {
		if chain, ok := s.stringField("chain"); ok {
			return addr + "@" + chain
		}
		return addr
	}
	return s.String()
}

// Version returns the version the scheme pins: the text after the last ':'
// of a plain scheme, or the "version" field of a table.
func (s Scheme) Version() (string, bool) {
	if s.kind == SchemeKindPlain {
		i := strings.LastIndex(s.plain, ":")
		if i <= 0 || i == len(s.plain)-1 {
			return "", false
		}
		return s.plain[i+1:], true
	}
	return s.stringField("version")
}

// Matches reports whether a record returned by the registry answers s.
//
// A record whose scheme is the full String() form matches. A record that
// only carries the ID() must also report the version s pins, if any, so a
// request for "ns:2.0.0" is never answered by the "ns" record at 1.0.0.
func (s Scheme) Matches(d Dependency) bool {
	if d.Scheme == "" {
		return false
	}
	if d.Scheme == s.String() {
		return true
	}
	if d.Scheme != s.ID() {
		return false
	}
	if v, ok := s.Version(); ok {
		return d.Version == v
	}
	return true
}

// Equal reports whether two schemes have the same kind and representation.
func (s Scheme) Equal(o Scheme) bool {
	return s.kind == o.kind && s.String() == o.String()
}

func (s Scheme) stringField(key string) (string, bool) {
	v, ok := s.Field(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok && str != ""
}

// MarshalJSON encodes a plain scheme as a JSON string and a structured scheme
// as a JSON object with its fields in order.
func (s Scheme) MarshalJSON() ([]byte, error) {
	if s.kind == SchemeKindPlain {
		return json.Marshal(s.plain)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("scheme field %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts either a JSON string or a JSON object.
func (s *Scheme) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("scheme: empty value")
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = PlainScheme(str)
		return nil
	case '{':
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		*s = StructuredScheme(fields)
		return nil
	default:
		return fmt.Errorf("scheme: expected string or object, got %s", data)
	}
}
