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


package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/storage"
)

const (
	// rrfK dampens the weight of rank positions in reciprocal rank fusion:
	// a document at rank r contributes 1/(rrfK + r) per ranking source.
	rrfK = 60

	// rankingDepth is how many candidates each ranking source contributes
	// before fusion.
	rankingDepth = 50
)

// Searcher provides hybrid vector and lexical search over document entities.
type Searcher struct {
	store    storage.GraphRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher. The provider supplies the same
// embedding capability used at ingestion, so query vectors live in the same
// space as stored document vectors.
func NewSearcher(store storage.GraphRepository, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: provider.Embedder(),
		logger:   slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search returns up to limit documents ranked by fused vector and lexical
// relevance to query.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, nil)
}

// SearchWithMonitor runs Search with observer callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(embedding))

	vectorRanked, err := s.store.FindSimilar(ctx, embedding, rankingDepth)
	if err != nil {
		s.logger.Error("error running vector ranking", "err", err)
		return nil, err
	}
	monitor.AfterVectorRanking(vectorRanked)

	lexicalRanked, err := s.store.SearchLexical(ctx, query, rankingDepth)
	if err != nil {
		s.logger.Error("error running lexical ranking", "err", err)
		return nil, err
	}
	monitor.AfterLexicalRanking(lexicalRanked)

	fused := fuse(vectorRanked, lexicalRanked)
	if len(fused) == 0 {
		monitor.Finish(nil)
		return []*core.SearchResult{}, nil
	}

	ids := make([]core.ID, 0, len(fused))
	for id := range fused {
		ids = append(ids, id)
	}
	entities, err := s.store.GetEntities(ctx, ids)
	if err != nil {
		s.logger.Error("error retrieving fused documents", "count", len(ids), "err", err)
		return nil, err
	}

	results := make([]*core.SearchResult, 0, len(entities))
	for _, entity := range entities {
		hit := fused[entity.Id]
		results = append(results, &core.SearchResult{
			DocumentId: entity.Id,
			Content:    entity.Content,
			Metadata:   entity.Metadata,
			Score:      hit.score,
			MatchType:  hit.matchType,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentId < results[j].DocumentId
	})
	if len(results) > limit {
		results = results[:limit]
	}

	monitor.Finish(results)
	return results, nil
}

// Relationships returns the one-hop neighborhood of an entity: every edge
// touching it in either direction, joined with the entity on the other end.
func (s *Searcher) Relationships(ctx context.Context, entityID core.ID) ([]*core.Neighbor, error) {
	return s.store.Relationships(ctx, entityID)
}

type fusedHit struct {
	score     float64
	matchType core.MatchType
}

// fuse merges the two rankings with reciprocal rank fusion. A document
// absent from a source contributes nothing from that source, so no score
// normalization between the heterogeneous metrics is needed.
func fuse(vector, lexical []core.RankedDocument) map[core.ID]fusedHit {
	fused := make(map[core.ID]fusedHit, len(vector)+len(lexical))

	for _, r := range vector {
		fused[r.DocumentId] = fusedHit{
			score:     rrfContribution(r.Rank),
			matchType: core.MatchTypeSemantic,
		}
	}
	for _, r := range lexical {
		hit, present := fused[r.DocumentId]
		if present {
			hit.score += rrfContribution(r.Rank)
			hit.matchType = core.MatchTypeBoth
		} else {
			hit = fusedHit{
				score:     rrfContribution(r.Rank),
				matchType: core.MatchTypeLexical,
			}
		}
		fused[r.DocumentId] = hit
	}
	return fused
}

func rrfContribution(rank int) float64 {
	return 1.0 / float64(rrfK+rank)
}
