// Package reembed regenerates the stored embeddings of every document in
// the graph, used after switching embedding models. Documents are paged out
// of the store in batches, re-embedded from their stored summaries, and the
// new vectors written back with retry on transient failures.
package reembed
