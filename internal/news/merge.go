package news

import "sort"

// Merge combines a freshly fetched batch with previously known articles
// into one canonical collection: incoming entries win ties, duplicates by
// (title, source) collapse to their first occurrence, the survivors are
// sorted by publish date descending, and the result is capped at
// MaxArticles. The second return value is the deduplicated count before
// truncation.
//
// Merge is idempotent: Merge(merged, nil) returns merged unchanged.
func Merge(incoming, existing []Article) ([]Article, int) {
	seen := make(map[string]struct{}, len(incoming)+len(existing))
	merged := make([]Article, 0, len(incoming)+len(existing))

	for _, a := range incoming {
		if _, dup := seen[a.Key()]; dup {
			continue
		}
		seen[a.Key()] = struct{}{}
		merged = append(merged, a)
	}
	for _, a := range existing {
		if _, dup := seen[a.Key()]; dup {
			continue
		}
		seen[a.Key()] = struct{}{}
		merged = append(merged, a)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt().After(merged[j].PublishedAt())
	})

	total := len(merged)
	if total > MaxArticles {
		merged = merged[:MaxArticles]
	}
	return merged, total
}
