package testutils

const (
	// Magic is the usmap magic number.
	Magic = uint16(0x30C4)

	versionPackageVersioning   = 1
	versionLongFName           = 2
	versionLargeEnums          = 3
	versionExplicitEnumValues  = 4
	tagArrayProperty           = 8
	tagStructProperty          = 9
	tagMapProperty             = 24
	tagSetProperty             = 25
	tagEnumProperty            = 26
	tagOptionalProperty        = 28
	noSuperIndex               = ^uint32(0)
	compressionNone            = 0
	customVersionEntrySize     = 20
	packageFileVersionByteSize = 8
)

// Member is an enum member as written on the wire.
type Member struct {
	Value int64
	Name  uint32
}

// Enum is an enum definition as written on the wire.
type Enum struct {
	Name    uint32
	Members []Member
}

// Property is a serialized schema property. Type holds the encoded type
// descriptor, built with the descriptor helpers below.
type Property struct {
	SchemaIndex uint16
	ArraySize   uint8
	Name        uint32
	Type        []byte
}

// Schema is a schema as written on the wire. Super is NoSuper for schemas
// without a parent.
type Schema struct {
	Name       uint32
	Super      uint32
	PropCount  uint16
	Properties []Property
}

// NoSuper is the wire sentinel for a schema without a supertype.
const NoSuper = noSuperIndex

// Payload describes the (uncompressed) body of a usmap file.
type Payload struct {
	Version uint8
	Names   []string
	Enums   []Enum
	Schemas []Schema
}

// Bytes encodes the payload using the field widths of p.Version.
func (p Payload) Bytes() []byte {
	buf := U32b(uint32(len(p.Names)))
	for _, name := range p.Names {
		if p.Version >= versionLongFName {
			buf = append(buf, U16b(uint16(len(name)))...)
		} else {
			buf = append(buf, uint8(len(name)))
		}
		buf = append(buf, name...)
	}

	buf = append(buf, U32b(uint32(len(p.Enums)))...)
	for _, enum := range p.Enums {
		buf = append(buf, U32b(enum.Name)...)
		if p.Version >= versionLargeEnums {
			buf = append(buf, U16b(uint16(len(enum.Members)))...)
		} else {
			buf = append(buf, uint8(len(enum.Members)))
		}
		for _, member := range enum.Members {
			if p.Version >= versionExplicitEnumValues {
				buf = append(buf, I64b(member.Value)...)
			}
			buf = append(buf, U32b(member.Name)...)
		}
	}

	buf = append(buf, U32b(uint32(len(p.Schemas)))...)
	for _, schema := range p.Schemas {
		buf = append(buf, U32b(schema.Name)...)
		buf = append(buf, U32b(schema.Super)...)
		buf = append(buf, U16b(schema.PropCount)...)
		buf = append(buf, U16b(uint16(len(schema.Properties)))...)
		for _, prop := range schema.Properties {
			buf = append(buf, U16b(prop.SchemaIndex)...)
			buf = append(buf, prop.ArraySize)
			buf = append(buf, U32b(prop.Name)...)
			buf = append(buf, prop.Type...)
		}
	}
	return buf
}

// Header describes a usmap file header.
type Header struct {
	Magic            uint16
	Version          uint8
	HasVersioning    bool
	CustomVersions   uint32
	Compression      uint8
	CompressedSize   uint32
	UncompressedSize uint32
}

// Bytes encodes the header. When HasVersioning is set, a zeroed package
// version and CustomVersions zeroed custom version entries are written.
func (h Header) Bytes() []byte {
	buf := U16b(h.Magic)
	buf = append(buf, h.Version)
	if h.Version >= versionPackageVersioning {
		if h.HasVersioning {
			buf = append(buf, 1)
			buf = append(buf, make([]byte, packageFileVersionByteSize)...)
			buf = append(buf, U32b(h.CustomVersions)...)
			buf = append(buf, make([]byte, customVersionEntrySize*int(h.CustomVersions))...)
		} else {
			buf = append(buf, 0)
		}
	}
	buf = append(buf, h.Compression)
	buf = append(buf, U32b(h.CompressedSize)...)
	buf = append(buf, U32b(h.UncompressedSize)...)
	return buf
}

// File returns an uncompressed usmap file containing p.
func File(p Payload) []byte {
	payload := p.Bytes()
	header := Header{
		Magic:            Magic,
		Version:          p.Version,
		Compression:      compressionNone,
		CompressedSize:   uint32(len(payload)),
		UncompressedSize: uint32(len(payload)),
	}
	return append(header.Bytes(), payload...)
}

// CompressedFile returns a usmap file whose payload has been compressed with
// compress and tagged with method.
func CompressedFile(p Payload, method uint8, compress func([]byte) []byte) []byte {
	payload := p.Bytes()
	compressed := compress(payload)
	header := Header{
		Magic:            Magic,
		Version:          p.Version,
		Compression:      method,
		CompressedSize:   uint32(len(compressed)),
		UncompressedSize: uint32(len(payload)),
	}
	return append(header.Bytes(), compressed...)
}

// Prim encodes a payload-free type descriptor.
func Prim(tag uint8) []byte {
	return []byte{tag}
}

// StructOf encodes a StructProperty descriptor naming the struct at name.
func StructOf(name uint32) []byte {
	return Flatten([]byte{tagStructProperty}, U32b(name))
}

// EnumOf encodes an EnumProperty descriptor.
func EnumOf(inner []byte, name uint32) []byte {
	return Flatten([]byte{tagEnumProperty}, inner, U32b(name))
}

// ArrayOf encodes an ArrayProperty descriptor.
func ArrayOf(inner []byte) []byte {
	return Flatten([]byte{tagArrayProperty}, inner)
}

// SetOf encodes a SetProperty descriptor.
func SetOf(inner []byte) []byte {
	return Flatten([]byte{tagSetProperty}, inner)
}

// OptionalOf encodes an OptionalProperty descriptor.
func OptionalOf(inner []byte) []byte {
	return Flatten([]byte{tagOptionalProperty}, inner)
}

// MapOf encodes a MapProperty descriptor.
func MapOf(key, value []byte) []byte {
	return Flatten([]byte{tagMapProperty}, key, value)
}
