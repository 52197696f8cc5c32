package usmap

import (
	"strings"

	"github.com/wkalt/usmap/compression"
)

/*
The decoded model. Every value here is created by a single decode and is not
modified afterwards; all strings are owned copies, independent of the input
buffer.
*/

////////////////////////////////////////////////////////////////////////////////

// Usmap is a decoded usmap file.
type Usmap struct {
	Version     Version            `json:"version"`
	Compression compression.Method `json:"compression"`

	// Names is the raw name table. It is empty when the decode was run
	// with WithRetainNames(false).
	Names   []string `json:"names"`
	Enums   []Enum   `json:"enums"`
	Schemas []Schema `json:"schemas"`

	enumIndex   map[string]int
	schemaIndex map[string]int
}

// Enum is an enumeration definition.
type Enum struct {
	Name    string       `json:"name"`
	Members []EnumMember `json:"members"`
}

// EnumMember is one named value of an enum.
type EnumMember struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Schema describes the serializable properties of a class or struct.
type Schema struct {
	Name         string `json:"name"`
	SuperType    string `json:"superType,omitempty"`
	HasSuperType bool   `json:"hasSuperType"`

	// PropCount is the declared total property count, which may exceed
	// len(Properties).
	PropCount  uint16     `json:"propCount"`
	Properties []Property `json:"properties"`
}

// Property is a single serialized property of a schema.
type Property struct {
	Name        string        `json:"name"`
	SchemaIndex uint16        `json:"schemaIndex"`
	ArraySize   uint8         `json:"arraySize"`
	Type        *PropertyType `json:"type"`
}

// PropertyType is a property type descriptor. Kind selects which of the
// remaining fields are meaningful:
//
//	EnumProperty:                    Inner, EnumName
//	StructProperty:                  StructType
//	ArrayProperty, SetProperty,
//	OptionalProperty:                Inner
//	MapProperty:                     Inner (key), Value
//
// All other kinds, including Unknown, carry no payload. For Unknown, Tag
// holds the unrecognized tag byte.
type PropertyType struct {
	Kind       Kind          `json:"kind"`
	Tag        uint8         `json:"tag"`
	Inner      *PropertyType `json:"inner,omitempty"`
	Value      *PropertyType `json:"value,omitempty"`
	EnumName   string        `json:"enumName,omitempty"`
	StructType string        `json:"structType,omitempty"`
}

// String renders the descriptor, e.g.
// "MapProperty<StructProperty(Vector), ArrayProperty<IntProperty>>".
func (t *PropertyType) String() string {
	sb := &strings.Builder{}
	t.format(sb)
	return sb.String()
}

func (t *PropertyType) format(sb *strings.Builder) {
	if t == nil {
		sb.WriteString("<nil>")
		return
	}
	sb.WriteString(t.Kind.String())
	switch t.Kind {
	case EnumProperty:
		sb.WriteString("(")
		sb.WriteString(t.EnumName)
		sb.WriteString(")<")
		t.Inner.format(sb)
		sb.WriteString(">")
	case StructProperty:
		sb.WriteString("(")
		sb.WriteString(t.StructType)
		sb.WriteString(")")
	case ArrayProperty, SetProperty, OptionalProperty:
		sb.WriteString("<")
		t.Inner.format(sb)
		sb.WriteString(">")
	case MapProperty:
		sb.WriteString("<")
		t.Inner.format(sb)
		sb.WriteString(", ")
		t.Value.format(sb)
		sb.WriteString(">")
	case Unknown:
		sb.WriteString("(")
		sb.WriteString(Kind(t.Tag).String())
		sb.WriteString(")")
	}
}

// Depth returns the nesting depth of the descriptor. A descriptor without
// children has depth 1.
func (t *PropertyType) Depth() int {
	if t == nil {
		return 0
	}
	return 1 + max(t.Inner.Depth(), t.Value.Depth())
}

// Names returns the member names of e in declaration order.
func (e Enum) Names() []string {
	names := make([]string, len(e.Members))
	for i, m := range e.Members {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the name of the first member with the given value.
func (e Enum) Lookup(value int64) (string, bool) {
	for _, m := range e.Members {
		if m.Value == value {
			return m.Name, true
		}
	}
	return "", false
}

func (u *Usmap) buildIndexes() {
	u.enumIndex = make(map[string]int, len(u.Enums))
	for i, e := range u.Enums {
		if _, ok := u.enumIndex[e.Name]; !ok {
			u.enumIndex[e.Name] = i
		}
	}
	u.schemaIndex = make(map[string]int, len(u.Schemas))
	for i, s := range u.Schemas {
		if _, ok := u.schemaIndex[s.Name]; !ok {
			u.schemaIndex[s.Name] = i
		}
	}
}

// Enum returns the first enum with the given name.
func (u *Usmap) Enum(name string) (*Enum, bool) {
	if u.enumIndex == nil {
		u.buildIndexes()
	}
	i, ok := u.enumIndex[name]
	if !ok {
		return nil, false
	}
	return &u.Enums[i], true
}

// Schema returns the first schema with the given name.
func (u *Usmap) Schema(name string) (*Schema, bool) {
	if u.schemaIndex == nil {
		u.buildIndexes()
	}
	i, ok := u.schemaIndex[name]
	if !ok {
		return nil, false
	}
	return &u.Schemas[i], true
}

// Hierarchy returns the named schema followed by its supertypes, nearest
// first. The walk stops at a supertype that is not present in the file or
// that would revisit a schema already in the chain.
func (u *Usmap) Hierarchy(name string) []*Schema {
	var chain []*Schema
	seen := map[string]bool{}
	for {
		s, ok := u.Schema(name)
		if !ok || seen[name] {
			return chain
		}
		seen[name] = true
		chain = append(chain, s)
		if !s.HasSuperType {
			return chain
		}
		name = s.SuperType
	}
}

// AllProperties returns the serialized properties of the named schema and
// its supertypes, root-most type first.
func (u *Usmap) AllProperties(name string) []Property {
	chain := u.Hierarchy(name)
	var props []Property
	for i := len(chain) - 1; i >= 0; i-- {
		props = append(props, chain[i].Properties...)
	}
	return props
}
