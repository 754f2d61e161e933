// Copyright 2025 Loreweave Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/loreweave/loreweave/core"
)

// Stop words excluded from the full-text index and from query terms.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

var termsMUS = ord.NewSliceSer[string](ord.String)

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// termCounts returns the per-term occurrence counts of text and the total
// number of indexed tokens.
func termCounts(text string) (map[string]uint64, uint64) {
	tokens := tokenizeAndFilter(text)
	counts := make(map[string]uint64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts, uint64(len(tokens))
}

func marshalCount(c uint64) []byte {
	buf := make([]byte, varint.Uint64.Size(c))
	varint.Uint64.Marshal(c, buf)
	return buf
}

func readCount(item *badger.Item) (uint64, error) {
	var c uint64
	err := item.Value(func(val []byte) error {
		var err error
		c, _, err = varint.Uint64.Unmarshal(val)
		return err
	})
	return c, err
}

// indexEntityText replaces the full-text postings of an entity with those of
// text. Stale postings from a previous version are dropped first via the
// per-document term list.
func indexEntityText(tx *badger.Txn, id core.ID, text string) error {
	if err := deindexEntity(tx, id); err != nil {
		return err
	}

	counts, total := termCounts(text)
	if total == 0 {
		return nil
	}

	terms := make([]string, 0, len(counts))
	for term, count := range counts {
		if err := tx.Set(makeTermKey(term, id), marshalCount(count)); err != nil {
			return err
		}
		terms = append(terms, term)
	}

	if err := tx.Set(makeDocLengthKey(id), marshalCount(total)); err != nil {
		return err
	}

	termsBuf := make([]byte, termsMUS.Size(terms))
	termsMUS.Marshal(terms, termsBuf)
	return tx.Set(makeDocTermsKey(id), termsBuf)
}

// deindexEntity removes all full-text postings of an entity.
func deindexEntity(tx *badger.Txn, id core.ID) error {
	item, err := tx.Get(makeDocTermsKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	}

	var terms []string
	err = item.Value(func(val []byte) error {
		var err error
		terms, _, err = termsMUS.Unmarshal(val)
		return err
	})
	if err != nil {
		return err
	}

	for _, term := range terms {
		if err := tx.Delete(makeTermKey(term, id)); err != nil {
			return err
		}
	}
	if err := tx.Delete(makeDocLengthKey(id)); err != nil {
		return err
	}
	return tx.Delete(makeDocTermsKey(id))
}
