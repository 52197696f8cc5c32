package usmap

import (
	"encoding/binary"
	"hash"

	"github.com/spaolacci/murmur3"
)

// Fingerprint returns a 64-bit hash of the enums and schemas of u. Two files
// describing the same types produce the same fingerprint regardless of
// compression, format version or whether the name table was retained.
func (u *Usmap) Fingerprint() uint64 {
	f := fingerprinter{h: murmur3.New64()}
	f.count(len(u.Enums))
	for _, e := range u.Enums {
		f.str(e.Name)
		f.count(len(e.Members))
		for _, m := range e.Members {
			f.str(m.Name)
			f.i64(m.Value)
		}
	}
	f.count(len(u.Schemas))
	for _, s := range u.Schemas {
		f.str(s.Name)
		if s.HasSuperType {
			f.str(s.SuperType)
		} else {
			f.count(-1)
		}
		f.count(int(s.PropCount))
		f.count(len(s.Properties))
		for _, p := range s.Properties {
			f.str(p.Name)
			f.count(int(p.SchemaIndex))
			f.count(int(p.ArraySize))
			f.typ(p.Type)
		}
	}
	return f.h.Sum64()
}

type fingerprinter struct {
	h   hash.Hash64
	buf [8]byte
}

func (f *fingerprinter) i64(v int64) {
	binary.LittleEndian.PutUint64(f.buf[:], uint64(v))
	_, _ = f.h.Write(f.buf[:])
}

func (f *fingerprinter) count(n int) {
	f.i64(int64(n))
}

func (f *fingerprinter) str(s string) {
	f.count(len(s))
	_, _ = f.h.Write([]byte(s))
}

func (f *fingerprinter) typ(t *PropertyType) {
	if t == nil {
		f.count(-1)
		return
	}
	f.count(int(t.Tag))
	f.str(t.EnumName)
	f.str(t.StructType)
	f.typ(t.Inner)
	f.typ(t.Value)
}
