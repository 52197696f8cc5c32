package usmap

import "fmt"

// Kind is the tag of a property type descriptor. The values are wire
// constants.
type Kind uint8

const (
	ByteProperty Kind = iota
	BoolProperty
	IntProperty
	FloatProperty
	ObjectProperty
	NameProperty
	DelegateProperty
	DoubleProperty
	ArrayProperty
	StructProperty
	StrProperty
	TextProperty
	InterfaceProperty
	MulticastDelegateProperty
	WeakObjectProperty
	LazyObjectProperty
	AssetObjectProperty
	SoftObjectProperty
	UInt64Property
	UInt32Property
	UInt16Property
	Int64Property
	Int16Property
	Int8Property
	MapProperty
	SetProperty
	EnumProperty
	FieldPathProperty
	OptionalProperty

	kindCount

	// Unknown marks a descriptor whose tag byte is not recognized.
	Unknown Kind = 0xFF
)

var kindNames = [kindCount]string{ // nolint:gochecknoglobals
	"ByteProperty",
	"BoolProperty",
	"IntProperty",
	"FloatProperty",
	"ObjectProperty",
	"NameProperty",
	"DelegateProperty",
	"DoubleProperty",
	"ArrayProperty",
	"StructProperty",
	"StrProperty",
	"TextProperty",
	"InterfaceProperty",
	"MulticastDelegateProperty",
	"WeakObjectProperty",
	"LazyObjectProperty",
	"AssetObjectProperty",
	"SoftObjectProperty",
	"UInt64Property",
	"UInt32Property",
	"UInt16Property",
	"Int64Property",
	"Int16Property",
	"Int8Property",
	"MapProperty",
	"SetProperty",
	"EnumProperty",
	"FieldPathProperty",
	"OptionalProperty",
}

func (k Kind) String() string {
	if k.Known() {
		return kindNames[k]
	}
	if k == Unknown {
		return "Unknown"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Known reports whether k is one of the recognized property kinds.
func (k Kind) Known() bool {
	return k < kindCount
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	if name == "Unknown" {
		return Unknown, nil
	}
	return 0, fmt.Errorf("unknown property kind: %q", name)
}
