// Package search implements the in-process asset search engine: text
// normalization, a trigram index built from one immutable asset snapshot,
// tiered relevance scoring, an LRU result cache and the index lifecycle.
//
// An Index is never mutated after BuildIndex returns. The Manager replaces it
// wholesale through an atomic pointer, so a query holding an older *Index
// finishes against a consistent snapshot even if a rebuild lands mid-query.
package search
