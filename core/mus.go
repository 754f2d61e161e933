package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored record types. Kept in one
// place so the wire layout is easy to audit; field order is part of the
// on-disk format and must not change.

var (
	embeddingMUS = ord.NewSliceSer[float32](raw.Float32)
	metadataMUS  = ord.NewMapSer[string, string](ord.String, ord.String)
)

// timeToMicro converts a timestamp to its stored representation.
// The zero time is stored as 0 so it round-trips exactly.
func timeToMicro(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return int(t.UnixMicro())
}

func microToTime(m int) time.Time {
	if m == 0 {
		return time.Time{}
	}
	return time.UnixMicro(int64(m)).UTC()
}

// IDMUS serializes IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// EntityMUS serializes Entity records.
var EntityMUS = entityMUS{}

type entityMUS struct{}

func (entityMUS) Marshal(v Entity, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += ord.String.Marshal(string(v.Class), bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += embeddingMUS.Marshal(v.Embedding, bs[n:])
	n += metadataMUS.Marshal(v.Metadata, bs[n:])
	n += varint.Int.Marshal(timeToMicro(v.CreatedAt), bs[n:])
	n += varint.Int.Marshal(timeToMicro(v.UpdatedAt), bs[n:])
	return
}

func (entityMUS) Unmarshal(bs []byte) (v Entity, n int, err error) {
	var n1 int
	var id uint64
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Id = ID(id)

	var class string
	class, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Class = EntityClass(class)

	v.Type, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	v.Embedding, n1, err = embeddingMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	v.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micro int
	micro, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = microToTime(micro)

	micro, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = microToTime(micro)
	return
}

func (entityMUS) Size(v Entity) (size int) {
	size = varint.Uint64.Size(uint64(v.Id))
	size += ord.String.Size(string(v.Class))
	size += ord.String.Size(v.Type)
	size += ord.String.Size(v.Content)
	size += embeddingMUS.Size(v.Embedding)
	size += metadataMUS.Size(v.Metadata)
	size += varint.Int.Size(timeToMicro(v.CreatedAt))
	size += varint.Int.Size(timeToMicro(v.UpdatedAt))
	return
}

// RelationshipMUS serializes Relationship records.
var RelationshipMUS = relationshipMUS{}

type relationshipMUS struct{}

func (relationshipMUS) Marshal(v Relationship, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Source), bs)
	n += varint.Uint64.Marshal(uint64(v.Target), bs[n:])
	n += ord.String.Marshal(v.Class, bs[n:])
	n += metadataMUS.Marshal(v.Metadata, bs[n:])
	n += varint.Int.Marshal(timeToMicro(v.CreatedAt), bs[n:])
	return
}

func (relationshipMUS) Unmarshal(bs []byte) (v Relationship, n int, err error) {
	var n1 int
	var id uint64
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Source = ID(id)

	id, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Target = ID(id)

	v.Class, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	v.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micro int
	micro, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = microToTime(micro)
	return
}

func (relationshipMUS) Size(v Relationship) (size int) {
	size = varint.Uint64.Size(uint64(v.Source))
	size += varint.Uint64.Size(uint64(v.Target))
	size += ord.String.Size(v.Class)
	size += metadataMUS.Size(v.Metadata)
	size += varint.Int.Size(timeToMicro(v.CreatedAt))
	return
}
