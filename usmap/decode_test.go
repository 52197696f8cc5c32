package usmap_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/usmap/usmap"
	"github.com/wkalt/usmap/util/testutils"
)

func prim(k usmap.Kind) []byte {
	return testutils.Prim(uint8(k))
}

// propertyFile returns a file with one schema "S" holding a single property
// "p" of the given encoded type. Names: 0 "S", 1 "p", 2 "A", 3 "E".
func propertyFile(typ []byte) []byte {
	return testutils.File(testutils.Payload{
		Version: 4,
		Names:   []string{"S", "p", "A", "E"},
		Schemas: []testutils.Schema{
			{
				Name:      0,
				Super:     testutils.NoSuper,
				PropCount: 1,
				Properties: []testutils.Property{
					{SchemaIndex: 0, ArraySize: 1, Name: 1, Type: typ},
				},
			},
		},
	})
}

func decodeType(t *testing.T, typ []byte, opts ...usmap.Option) *usmap.PropertyType {
	t.Helper()
	u, err := usmap.FromBytes(context.Background(), propertyFile(typ), opts...)
	require.NoError(t, err)
	require.Len(t, u.Schemas, 1)
	require.Len(t, u.Schemas[0].Properties, 1)
	return u.Schemas[0].Properties[0].Type
}

func TestEndToEndExample(t *testing.T) {
	u, err := usmap.FromBytes(context.Background(), testutils.File(examplePayload(4)))
	require.NoError(t, err)
	assert.Equal(t, usmap.VersionExplicitEnumValues, u.Version)
	assert.Equal(t, []string{"A", "B"}, u.Names)
	assert.Equal(t, []usmap.Enum{
		{Name: "A", Members: []usmap.EnumMember{{Name: "B", Value: 0}}},
	}, u.Enums)
	assert.Empty(t, u.Schemas)
}

func TestAllVersions(t *testing.T) {
	for version := uint8(0); version <= uint8(usmap.VersionLatest); version++ {
		t.Run(usmap.Version(version).String(), func(t *testing.T) {
			payload := testutils.Payload{
				Version: version,
				Names:   []string{"Base", "Derived", "Health", "EMode", "Off", "On"},
				Enums: []testutils.Enum{
					{Name: 3, Members: []testutils.Member{{Value: 10, Name: 4}, {Value: 20, Name: 5}}},
				},
				Schemas: []testutils.Schema{
					{Name: 0, Super: testutils.NoSuper},
					{
						Name:      1,
						Super:     0,
						PropCount: 3,
						Properties: []testutils.Property{
							{SchemaIndex: 2, ArraySize: 1, Name: 2, Type: prim(usmap.IntProperty)},
						},
					},
				},
			}
			for _, hasVersioning := range []bool{false, true} {
				data := testutils.File(payload)
				if hasVersioning {
					if version == 0 {
						continue
					}
					body := payload.Bytes()
					header := testutils.Header{
						Magic:            testutils.Magic,
						Version:          version,
						HasVersioning:    true,
						CustomVersions:   2,
						CompressedSize:   uint32(len(body)),
						UncompressedSize: uint32(len(body)),
					}
					data = append(header.Bytes(), body...)
				}
				u, err := usmap.FromBytes(context.Background(), data)
				require.NoError(t, err)
				assert.Equal(t, usmap.Version(version), u.Version)

				values := []int64{0, 1}
				if usmap.Version(version) >= usmap.VersionExplicitEnumValues {
					values = []int64{10, 20}
				}
				assert.Equal(t, []usmap.Enum{{
					Name: "EMode",
					Members: []usmap.EnumMember{
						{Name: "Off", Value: values[0]},
						{Name: "On", Value: values[1]},
					},
				}}, u.Enums)

				require.Len(t, u.Schemas, 2)
				assert.False(t, u.Schemas[0].HasSuperType)
				assert.Empty(t, u.Schemas[0].Properties)
				derived := u.Schemas[1]
				assert.Equal(t, "Derived", derived.Name)
				assert.True(t, derived.HasSuperType)
				assert.Equal(t, "Base", derived.SuperType)
				assert.Equal(t, uint16(3), derived.PropCount)
				require.Len(t, derived.Properties, 1)
				assert.Equal(t, usmap.Property{
					Name:        "Health",
					SchemaIndex: 2,
					ArraySize:   1,
					Type:        &usmap.PropertyType{Kind: usmap.IntProperty, Tag: uint8(usmap.IntProperty)},
				}, derived.Properties[0])
			}
		})
	}
}

func TestLongNames(t *testing.T) {
	long := strings.Repeat("x", 300)
	u, err := usmap.FromBytes(context.Background(), testutils.File(testutils.Payload{
		Version: 2,
		Names:   []string{long, "short"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{long, "short"}, u.Names)

	t.Run("one byte lengths before LongFName", func(t *testing.T) {
		data := withHeader(1, testutils.Flatten(
			testutils.U32b(1),
			testutils.U8b(3),
			[]byte("abc"),
			testutils.U32b(0),
			testutils.U32b(0),
		))
		u, err := usmap.FromBytes(context.Background(), data)
		require.NoError(t, err)
		assert.Equal(t, []string{"abc"}, u.Names)
	})
}

func TestLargeEnums(t *testing.T) {
	members := make([]testutils.Member, 300)
	for i := range members {
		members[i] = testutils.Member{Name: 1}
	}
	u, err := usmap.FromBytes(context.Background(), testutils.File(testutils.Payload{
		Version: 3,
		Names:   []string{"EBig", "V"},
		Enums:   []testutils.Enum{{Name: 0, Members: members}},
	}))
	require.NoError(t, err)
	require.Len(t, u.Enums, 1)
	require.Len(t, u.Enums[0].Members, 300)
	assert.Equal(t, int64(299), u.Enums[0].Members[299].Value)
}

func TestExplicitEnumValues(t *testing.T) {
	u, err := usmap.FromBytes(context.Background(), testutils.File(testutils.Payload{
		Version: 4,
		Names:   []string{"E", "Neg", "Big"},
		Enums: []testutils.Enum{{Name: 0, Members: []testutils.Member{
			{Value: -1, Name: 1},
			{Value: 1 << 40, Name: 2},
		}}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []usmap.EnumMember{
		{Name: "Neg", Value: -1},
		{Name: "Big", Value: 1 << 40},
	}, u.Enums[0].Members)
}

func TestResolvedNamesMatchTable(t *testing.T) {
	names := []string{"dup", "dup", "Other", "Member"}
	u, err := usmap.FromBytes(context.Background(), testutils.File(testutils.Payload{
		Version: 4,
		Names:   names,
		Enums: []testutils.Enum{
			{Name: 1, Members: []testutils.Member{{Name: 3}, {Name: 0}}},
			{Name: 2},
		},
		Schemas: []testutils.Schema{
			{Name: 2, Super: 1, Properties: []testutils.Property{{Name: 3, Type: testutils.StructOf(0)}}},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, names, u.Names)
	assert.Equal(t, names[1], u.Enums[0].Name)
	assert.Equal(t, names[3], u.Enums[0].Members[0].Name)
	assert.Equal(t, names[0], u.Enums[0].Members[1].Name)
	assert.Equal(t, names[2], u.Enums[1].Name)
	assert.Empty(t, u.Enums[1].Members)
	assert.Equal(t, names[1], u.Schemas[0].SuperType)
	assert.Equal(t, names[0], u.Schemas[0].Properties[0].Type.StructType)
}

func TestRetainNames(t *testing.T) {
	data := testutils.File(examplePayload(4))
	u, err := usmap.FromBytes(context.Background(), data, usmap.WithRetainNames(false))
	require.NoError(t, err)
	assert.NotNil(t, u.Names)
	assert.Empty(t, u.Names)
	assert.Equal(t, "A", u.Enums[0].Name)
	assert.Equal(t, "B", u.Enums[0].Members[0].Name)

	retained, err := usmap.FromBytes(context.Background(), data, usmap.WithRetainNames(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, retained.Names)
}

func TestNameIndexOutOfRange(t *testing.T) {
	cases := []struct {
		assertion string
		payload   testutils.Payload
		index     uint32
	}{
		{
			"enum name",
			testutils.Payload{Version: 4, Names: []string{"A", "B"}, Enums: []testutils.Enum{{Name: 5}}},
			5,
		},
		{
			"member name",
			testutils.Payload{Version: 4, Names: []string{"A", "B"}, Enums: []testutils.Enum{
				{Name: 0, Members: []testutils.Member{{Name: 2}}},
			}},
			2,
		},
		{
			"schema name",
			testutils.Payload{Version: 4, Names: []string{"A", "B"}, Schemas: []testutils.Schema{
				{Name: 7, Super: testutils.NoSuper},
			}},
			7,
		},
		{
			"super type",
			testutils.Payload{Version: 4, Names: []string{"A", "B"}, Schemas: []testutils.Schema{
				{Name: 0, Super: 0xFFFFFFFE},
			}},
			0xFFFFFFFE,
		},
		{
			"struct type",
			testutils.Payload{Version: 4, Names: []string{"A", "B"}, Schemas: []testutils.Schema{
				{Name: 0, Super: testutils.NoSuper, Properties: []testutils.Property{
					{Name: 1, Type: testutils.StructOf(9)},
				}},
			}},
			9,
		},
		{
			"enum type",
			testutils.Payload{Version: 4, Names: []string{"A", "B"}, Schemas: []testutils.Schema{
				{Name: 0, Super: testutils.NoSuper, Properties: []testutils.Property{
					{Name: 1, Type: testutils.EnumOf(prim(usmap.ByteProperty), 3)},
				}},
			}},
			3,
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			_, err := usmap.FromBytes(context.Background(), testutils.File(c.payload))
			var ierr usmap.NameIndexOutOfRangeError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, c.index, ierr.Index)
			assert.Equal(t, 2, ierr.Count)
		})
	}
}

func TestNameEncoding(t *testing.T) {
	payload := testutils.Payload{
		Version: 4,
		Names:   []string{"ok", "bad\xffname"},
		Enums:   []testutils.Enum{{Name: 1}},
	}
	data := testutils.File(payload)

	t.Run("strict", func(t *testing.T) {
		_, err := usmap.FromBytes(context.Background(), data)
		var eerr usmap.InvalidEncodingError
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, 1, eerr.Index)
	})

	t.Run("lossy", func(t *testing.T) {
		u, err := usmap.FromBytes(context.Background(), data, usmap.WithLossyNames())
		require.NoError(t, err)
		assert.Equal(t, []string{"ok", "bad�name"}, u.Names)
		assert.Equal(t, "bad�name", u.Enums[0].Name)
	})

	t.Run("multibyte names are valid", func(t *testing.T) {
		u, err := usmap.FromBytes(context.Background(), testutils.File(testutils.Payload{
			Version: 4,
			Names:   []string{"名前", "größe"},
		}))
		require.NoError(t, err)
		assert.Equal(t, []string{"名前", "größe"}, u.Names)
	})
}

func TestOversizedCounts(t *testing.T) {
	cases := []struct {
		assertion string
		version   uint8
		payload   []byte
	}{
		{
			"name count",
			4,
			testutils.Flatten(testutils.U32b(0xFFFFFFFF), make([]byte, 16)),
		},
		{
			"enum count",
			4,
			testutils.Flatten(testutils.U32b(0), testutils.U32b(0x10000000), make([]byte, 16)),
		},
		{
			"enum member count",
			4,
			testutils.Flatten(
				testutils.U32b(1), testutils.U16b(1), []byte("E"),
				testutils.U32b(1), testutils.U32b(0), testutils.U16b(0xFFFF),
				make([]byte, 16),
			),
		},
		{
			"schema count",
			4,
			testutils.Flatten(testutils.U32b(0), testutils.U32b(0), testutils.U32b(0x01000000)),
		},
		{
			"property count",
			4,
			testutils.Flatten(
				testutils.U32b(1), testutils.U16b(1), []byte("S"),
				testutils.U32b(0),
				testutils.U32b(1), testutils.U32b(0), testutils.U32b(testutils.NoSuper),
				testutils.U16b(0xFFFF), testutils.U16b(0xFFFF),
				make([]byte, 16),
			),
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			_, err := usmap.FromBytes(context.Background(), withHeader(c.version, c.payload))
			require.ErrorIs(t, err, usmap.OversizedAllocationError{})
		})
	}
}

func TestTruncatedPayload(t *testing.T) {
	full := testutils.Payload{
		Version: 4,
		Names:   []string{"S", "p"},
		Enums:   []testutils.Enum{{Name: 0, Members: []testutils.Member{{Value: 3, Name: 1}}}},
		Schemas: []testutils.Schema{{
			Name:  0,
			Super: testutils.NoSuper,
			Properties: []testutils.Property{
				{Name: 1, Type: testutils.MapOf(prim(usmap.IntProperty), testutils.StructOf(0))},
			},
		}},
	}.Bytes()
	for cut := 0; cut < len(full); cut++ {
		_, err := usmap.FromBytes(context.Background(), withHeader(4, full[:cut]))
		require.Error(t, err, "cut at %d", cut)
		// Counts that cannot fit in what remains are rejected before the
		// short read happens.
		require.True(t,
			errors.Is(err, usmap.TruncatedInputError{}) || errors.Is(err, usmap.OversizedAllocationError{}),
			"cut at %d: %v", cut, err)
	}
}

func TestTrailingBytesIgnored(t *testing.T) {
	body := append(examplePayload(4).Bytes(), 1, 2, 3)
	u, err := usmap.FromBytes(context.Background(), withHeader(4, body))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, u.Names)
}

func TestPropertyTypes(t *testing.T) {
	cases := []struct {
		assertion string
		typ       []byte
		expected  string
	}{
		{"primitive", prim(usmap.BoolProperty), "BoolProperty"},
		{"struct", testutils.StructOf(2), "StructProperty(A)"},
		{"enum", testutils.EnumOf(prim(usmap.ByteProperty), 3), "EnumProperty(E)<ByteProperty>"},
		{"array", testutils.ArrayOf(prim(usmap.StrProperty)), "ArrayProperty<StrProperty>"},
		{"set", testutils.SetOf(prim(usmap.NameProperty)), "SetProperty<NameProperty>"},
		{"optional", testutils.OptionalOf(prim(usmap.DoubleProperty)), "OptionalProperty<DoubleProperty>"},
		{
			"map",
			testutils.MapOf(testutils.StructOf(2), testutils.ArrayOf(prim(usmap.IntProperty))),
			"MapProperty<StructProperty(A), ArrayProperty<IntProperty>>",
		},
		{
			"array of enums",
			testutils.ArrayOf(testutils.EnumOf(prim(usmap.ByteProperty), 3)),
			"ArrayProperty<EnumProperty(E)<ByteProperty>>",
		},
		{"unknown", testutils.Prim(200), "Unknown(Kind(200))"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			typ := decodeType(t, c.typ)
			assert.Equal(t, c.expected, typ.String())
		})
	}
}

func TestMapKeyValueOrder(t *testing.T) {
	typ := decodeType(t, testutils.MapOf(prim(usmap.NameProperty), testutils.StructOf(2)))
	require.Equal(t, usmap.MapProperty, typ.Kind)
	assert.Equal(t, usmap.NameProperty, typ.Inner.Kind)
	assert.Equal(t, usmap.StructProperty, typ.Value.Kind)
	assert.Equal(t, "A", typ.Value.StructType)
}

func TestEnumPropertyNesting(t *testing.T) {
	typ := decodeType(t, testutils.EnumOf(prim(usmap.ByteProperty), 3))
	require.Equal(t, usmap.EnumProperty, typ.Kind)
	assert.Equal(t, "E", typ.EnumName)
	require.NotNil(t, typ.Inner)
	assert.Equal(t, usmap.ByteProperty, typ.Inner.Kind)
	assert.Nil(t, typ.Value)
}

func TestUnknownTagIsTerminal(t *testing.T) {
	u, err := usmap.FromBytes(context.Background(), testutils.File(testutils.Payload{
		Version: 4,
		Names:   []string{"S", "a", "b"},
		Schemas: []testutils.Schema{{
			Name:  0,
			Super: testutils.NoSuper,
			Properties: []testutils.Property{
				{Name: 1, Type: testutils.Prim(0xEE)},
				{Name: 2, Type: testutils.ArrayOf(testutils.Prim(0x1D))},
			},
		}},
	}))
	require.NoError(t, err)
	props := u.Schemas[0].Properties
	require.Len(t, props, 2)
	assert.Equal(t, &usmap.PropertyType{Kind: usmap.Unknown, Tag: 0xEE}, props[0].Type)
	assert.Equal(t, "b", props[1].Name)
	assert.Equal(t, usmap.ArrayProperty, props[1].Type.Kind)
	assert.Equal(t, &usmap.PropertyType{Kind: usmap.Unknown, Tag: 0x1D}, props[1].Type.Inner)
}

func TestNestingDepth(t *testing.T) {
	nested := func(levels int) []byte {
		typ := prim(usmap.IntProperty)
		for i := 0; i < levels; i++ {
			typ = testutils.ArrayOf(typ)
		}
		return typ
	}
	t.Run("within default limit", func(t *testing.T) {
		typ := decodeType(t, nested(usmap.DefaultMaxDepth-1))
		assert.Equal(t, usmap.DefaultMaxDepth, typ.Depth())
	})
	t.Run("beyond default limit", func(t *testing.T) {
		_, err := usmap.FromBytes(context.Background(), propertyFile(nested(usmap.DefaultMaxDepth)))
		var nerr usmap.NestingTooDeepError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, usmap.DefaultMaxDepth, nerr.Limit)
	})
	t.Run("configured limit", func(t *testing.T) {
		typ := decodeType(t, nested(100), usmap.WithMaxDepth(101))
		assert.Equal(t, 101, typ.Depth())
		_, err := usmap.FromBytes(context.Background(), propertyFile(nested(100)), usmap.WithMaxDepth(100))
		require.ErrorIs(t, err, usmap.NestingTooDeepError{})
	})
	t.Run("deep maps", func(t *testing.T) {
		typ := prim(usmap.IntProperty)
		for i := 0; i < 10; i++ {
			typ = testutils.MapOf(prim(usmap.IntProperty), typ)
		}
		_, err := usmap.FromBytes(context.Background(), propertyFile(typ), usmap.WithMaxDepth(10))
		require.ErrorIs(t, err, usmap.NestingTooDeepError{})
	})
}
