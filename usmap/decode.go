package usmap

import (
	"fmt"
	"unicode/utf8"

	"github.com/wkalt/usmap/reader"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

/*
The section decoders. A decoder walks the uncompressed payload once, in order:
the name table, the enum table and the schema table. Every count read from
the payload is checked against the bytes that remain before anything is
allocated for it, and every name index is bounds checked against the name
table.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	noSuperType = ^uint32(0)

	enumEntryNameSize   = 4
	memberNameSize      = 4
	memberValueSize     = 8
	schemaEntryMinSize  = 4 + 4 + 2 + 2
	propertyEntryMinLen = 2 + 1 + 4 + 1
)

type decoder struct {
	r     reader.Reader
	feat  features
	conf  *config
	names []string
	lossy transform.Transformer
}

func newDecoder(r reader.Reader, version Version, conf *config) *decoder {
	d := &decoder{
		r:    r,
		feat: newFeatures(version),
		conf: conf,
	}
	if conf.lossyNames {
		d.lossy = runes.ReplaceIllFormed()
	}
	return d
}

// checkCount rejects counts whose minimal encoding could not fit in the
// remaining input.
func (d *decoder) checkCount(field string, count uint32, minSize int64) error {
	remaining := d.r.Remaining()
	if int64(count)*minSize > remaining {
		return OversizedAllocationError{
			Field: field,
			Size:  int64(count),
			Limit: remaining / minSize,
		}
	}
	return nil
}

func (d *decoder) name(idx uint32) (string, error) {
	if int64(idx) >= int64(len(d.names)) {
		return "", NameIndexOutOfRangeError{Index: idx, Count: len(d.names)}
	}
	return d.names[idx], nil
}

func (d *decoder) readName() (string, error) {
	idx, err := d.r.Uint32()
	if err != nil {
		return "", truncated(err)
	}
	return d.name(idx)
}

func (d *decoder) readNames() error {
	count, err := d.r.Uint32()
	if err != nil {
		return truncated(err)
	}
	width := d.feat.nameWidth()
	if err := d.checkCount("name count", count, int64(width)); err != nil {
		return err
	}
	d.names = make([]string, count)
	for i := range d.names {
		s, err := d.r.String(width)
		if err != nil {
			return truncated(err)
		}
		if !utf8.ValidString(s) {
			if d.lossy == nil {
				return InvalidEncodingError{Index: i}
			}
			if s, _, err = transform.String(d.lossy, s); err != nil {
				return fmt.Errorf("failed to repair name %d: %w", i, err)
			}
		}
		d.names[i] = s
	}
	return nil
}

func (d *decoder) readEnums() ([]Enum, error) {
	count, err := d.r.Uint32()
	if err != nil {
		return nil, truncated(err)
	}
	minSize := int64(enumEntryNameSize + d.feat.memberCountWidth())
	if err := d.checkCount("enum count", count, minSize); err != nil {
		return nil, err
	}
	enums := make([]Enum, count)
	for i := range enums {
		if enums[i], err = d.readEnum(); err != nil {
			return nil, fmt.Errorf("enum %d: %w", i, err)
		}
	}
	return enums, nil
}

func (d *decoder) readEnum() (Enum, error) {
	name, err := d.readName()
	if err != nil {
		return Enum{}, err
	}
	var count uint32
	if d.feat.largeEnums {
		n, err := d.r.Uint16()
		if err != nil {
			return Enum{}, truncated(err)
		}
		count = uint32(n)
	} else {
		n, err := d.r.Uint8()
		if err != nil {
			return Enum{}, truncated(err)
		}
		count = uint32(n)
	}
	memberSize := int64(memberNameSize)
	if d.feat.explicitEnumValues {
		memberSize += memberValueSize
	}
	if err := d.checkCount("enum member count", count, memberSize); err != nil {
		return Enum{}, err
	}
	members := make([]EnumMember, count)
	for i := range members {
		value := int64(i)
		if d.feat.explicitEnumValues {
			if value, err = d.r.Int64(); err != nil {
				return Enum{}, truncated(err)
			}
		}
		memberName, err := d.readName()
		if err != nil {
			return Enum{}, fmt.Errorf("member %d: %w", i, err)
		}
		members[i] = EnumMember{Name: memberName, Value: value}
	}
	return Enum{Name: name, Members: members}, nil
}

func (d *decoder) readSchemas() ([]Schema, error) {
	count, err := d.r.Uint32()
	if err != nil {
		return nil, truncated(err)
	}
	if err := d.checkCount("schema count", count, schemaEntryMinSize); err != nil {
		return nil, err
	}
	schemas := make([]Schema, count)
	for i := range schemas {
		if schemas[i], err = d.readSchema(); err != nil {
			return nil, fmt.Errorf("schema %d: %w", i, err)
		}
	}
	return schemas, nil
}

func (d *decoder) readSchema() (Schema, error) {
	var s Schema
	var err error
	if s.Name, err = d.readName(); err != nil {
		return s, err
	}
	superIdx, err := d.r.Uint32()
	if err != nil {
		return s, truncated(err)
	}
	if superIdx != noSuperType {
		if s.SuperType, err = d.name(superIdx); err != nil {
			return s, fmt.Errorf("super type: %w", err)
		}
		s.HasSuperType = true
	}
	if s.PropCount, err = d.r.Uint16(); err != nil {
		return s, truncated(err)
	}
	serializable, err := d.r.Uint16()
	if err != nil {
		return s, truncated(err)
	}
	if err := d.checkCount("property count", uint32(serializable), propertyEntryMinLen); err != nil {
		return s, err
	}
	s.Properties = make([]Property, serializable)
	for i := range s.Properties {
		if s.Properties[i], err = d.readProperty(); err != nil {
			return s, fmt.Errorf("property %d: %w", i, err)
		}
	}
	return s, nil
}

func (d *decoder) readProperty() (Property, error) {
	var p Property
	var err error
	if p.SchemaIndex, err = d.r.Uint16(); err != nil {
		return p, truncated(err)
	}
	if p.ArraySize, err = d.r.Uint8(); err != nil {
		return p, truncated(err)
	}
	if p.Name, err = d.readName(); err != nil {
		return p, err
	}
	if p.Type, err = d.readPropertyType(1); err != nil {
		return p, err
	}
	return p, nil
}

// readPropertyType decodes one descriptor. depth is the nesting level of the
// descriptor being read, starting at 1.
func (d *decoder) readPropertyType(depth int) (*PropertyType, error) {
	if depth > d.conf.maxDepth {
		return nil, NestingTooDeepError{Limit: d.conf.maxDepth}
	}
	tag, err := d.r.Uint8()
	if err != nil {
		return nil, truncated(err)
	}
	t := &PropertyType{Kind: Kind(tag), Tag: tag}
	if !t.Kind.Known() {
		t.Kind = Unknown
		return t, nil
	}
	switch t.Kind {
	case EnumProperty:
		if t.Inner, err = d.readPropertyType(depth + 1); err != nil {
			return nil, err
		}
		if t.EnumName, err = d.readName(); err != nil {
			return nil, err
		}
	case StructProperty:
		if t.StructType, err = d.readName(); err != nil {
			return nil, err
		}
	case ArrayProperty, SetProperty, OptionalProperty:
		if t.Inner, err = d.readPropertyType(depth + 1); err != nil {
			return nil, err
		}
	case MapProperty:
		if t.Inner, err = d.readPropertyType(depth + 1); err != nil {
			return nil, err
		}
		if t.Value, err = d.readPropertyType(depth + 1); err != nil {
			return nil, err
		}
	}
	return t, nil
}
