package core

import (
	"context"

	"reelify.io/movie-advisor/internal/catalog"
)

// Searcher is the slice of the vector index the core needs: the n most
// similar documents for a query, best first.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]catalog.Document, error)
}

// Three independent reasons can reject a candidate (already shown, duplicate,
// wrong genre), so the index is over-fetched. Fetching starts at limit×3 and
// doubles up to limit×10 before giving up.
const (
	overFetchBase = 3
	overFetchCap  = 10
)

// FetchResult is the outcome of one filtered retrieval. Exhausted is set when
// the index ran out of acceptable candidates before limit was reached; a short
// result is a valid outcome, not an error.
type FetchResult struct {
	Documents []catalog.Document
	Exhausted bool
}

// fetchCandidates pulls candidates from the index in growing batches and
// keeps the first limit documents that are not excluded and, when tags is
// non-empty, overlap the requested genres. Input order (the index's similarity
// ranking) is preserved. Every accepted document's id is added to excluded.
func fetchCandidates(ctx context.Context, index Searcher, query string, tags []string, excluded map[int]bool, limit int) (FetchResult, error) {
	if limit <= 0 {
		return FetchResult{}, nil
	}

	maxFetch := limit * overFetchCap
	fetch := limit * overFetchBase

	for {
		raw, err := index.Search(ctx, query, fetch)
		if err != nil {
			return FetchResult{}, err
		}

		accepted := filterCandidates(raw, tags, excluded, limit)

		// Done when we have enough, the index has no more to give, or the
		// over-fetch budget is spent.
		if len(accepted) >= limit || len(raw) < fetch || fetch >= maxFetch {
			for _, doc := range accepted {
				excluded[doc.Meta.ID] = true
			}
			return FetchResult{
				Documents: accepted,
				Exhausted: len(accepted) < limit,
			}, nil
		}

		fetch *= 2
		if fetch > maxFetch {
			fetch = maxFetch
		}
	}
}

// filterCandidates applies the acceptance rules to one batch without touching
// the caller's exclusion set, so a retry with a bigger batch starts clean.
func filterCandidates(raw []catalog.Document, tags []string, excluded map[int]bool, limit int) []catalog.Document {
	seen := make(map[int]bool, len(excluded))
	for id := range excluded {
		seen[id] = true
	}

	var accepted []catalog.Document
	for _, doc := range raw {
		if seen[doc.Meta.ID] {
			continue
		}
		// A document with no genre information passes the genre filter: an
		// undecodable or absent genre list must not hide the document.
		if len(tags) > 0 && len(doc.Meta.Genres) > 0 && !genreMatches(tags, doc.Meta.Genres) {
			continue
		}
		seen[doc.Meta.ID] = true
		accepted = append(accepted, doc)
		if len(accepted) >= limit {
			break
		}
	}
	return accepted
}
