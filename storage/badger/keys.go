package badger

import (
	"encoding/binary"

	"github.com/loreweave/loreweave/core"
)

// Key prefixes for the graph keyspace. Every composite segment is written
// in BigEndian so lexicographic iteration matches numeric order.
const (
	entityPrefix    = "ent"
	edgeOutPrefix   = "edgo"
	edgeInPrefix    = "edgi"
	termPrefix      = "ftt"
	docLengthPrefix = "ftl"
	docTermsPrefix  = "ftd"
)

// makeEntityKey generates the primary key for an entity record.
// Format: prefix:id
func makeEntityKey(id core.ID) []byte {
	prefix := entityPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeEdgeKey generates a composite key for one direction of an edge index.
// Format: prefix:nearID:farID:class
// For the outgoing index near is the source; for the incoming index near is
// the target.
func makeEdgeKey(prefix string, near, far core.ID, class string) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+16+len(class))
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(near))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(far))
	offset += 8
	copy(buf[offset:], class)
	return buf
}

// makePartialEdgeKey generates the iteration prefix for all edges touching
// an entity on one side.
// Format: prefix:nearID
func makePartialEdgeKey(prefix string, near core.ID) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+8)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(near))
	return buf
}

// makeTermKey generates a composite key for the full-text posting index.
// Format: prefix:term:docID
func makeTermKey(term string, docID core.ID) []byte {
	p := termPrefix + ":"
	buf := make([]byte, len(p)+len(term)+1+8)
	offset := copy(buf, p)
	offset += copy(buf[offset:], term)
	buf[offset] = ':'
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makePartialTermKey generates the iteration prefix for all postings of a term.
// Format: prefix:term:
func makePartialTermKey(term string) []byte {
	return []byte(termPrefix + ":" + term + ":")
}

// termPostingDocID recovers the document ID from the tail of a posting key.
func termPostingDocID(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}

// makeDocLengthKey generates the key holding a document's token count.
func makeDocLengthKey(docID core.ID) []byte {
	p := docLengthPrefix + ":"
	buf := make([]byte, len(p)+8)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeDocTermsKey generates the key holding a document's indexed term list,
// kept so re-ingestion can drop stale postings.
func makeDocTermsKey(docID core.ID) []byte {
	p := docTermsPrefix + ":"
	buf := make([]byte, len(p)+8)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}
