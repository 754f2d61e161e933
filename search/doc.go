// Package search implements hybrid retrieval over the knowledge graph.
// A query is ranked twice, by embedding similarity and by lexical term
// relevance, and the two rankings are fused with Reciprocal Rank Fusion so
// a document missed by one signal is still findable through the other.
package search
