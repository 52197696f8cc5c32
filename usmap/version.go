package usmap

import "fmt"

// Version is the usmap format revision stored in the file header.
type Version uint8

const (
	// VersionInitial is the original format.
	VersionInitial Version = iota
	// VersionPackageVersioning adds an optional package versioning block to
	// the header.
	VersionPackageVersioning
	// VersionLongFName widens name lengths to 16 bits.
	VersionLongFName
	// VersionLargeEnums widens enum member counts to 16 bits.
	VersionLargeEnums
	// VersionExplicitEnumValues stores an explicit int64 value per enum
	// member.
	VersionExplicitEnumValues

	versionLatestPlusOne

	// VersionLatest is the newest version this package decodes.
	VersionLatest = versionLatestPlusOne - 1
)

func (v Version) String() string {
	switch v {
	case VersionInitial:
		return "Initial"
	case VersionPackageVersioning:
		return "PackageVersioning"
	case VersionLongFName:
		return "LongFName"
	case VersionLargeEnums:
		return "LargeEnums"
	case VersionExplicitEnumValues:
		return "ExplicitEnumValues"
	default:
		return fmt.Sprintf("Version(%d)", uint8(v))
	}
}

// features are the version-dependent decoding switches. They are derived
// once from the header version and consulted by every section decoder.
type features struct {
	packageVersioning  bool
	longNames          bool
	largeEnums         bool
	explicitEnumValues bool
}

func newFeatures(v Version) features {
	return features{
		packageVersioning:  v >= VersionPackageVersioning,
		longNames:          v >= VersionLongFName,
		largeEnums:         v >= VersionLargeEnums,
		explicitEnumValues: v >= VersionExplicitEnumValues,
	}
}

// nameWidth is the byte width of a name length prefix.
func (f features) nameWidth() int {
	if f.longNames {
		return 2
	}
	return 1
}

// memberCountWidth is the byte width of an enum member count.
func (f features) memberCountWidth() int {
	if f.largeEnums {
		return 2
	}
	return 1
}
