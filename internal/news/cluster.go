package news

// DefaultSimilarityThreshold is the score at or above which two titles are
// put in the same group.
const DefaultSimilarityThreshold = 0.60

// Cluster partitions articles into similarity groups. Each not yet grouped
// article, in input order, becomes an anchor and pulls in every other
// ungrouped article whose title scores at least threshold against the
// anchor's title. Membership is decided against the anchor only, so the
// grouping is not transitive and depends on input order.
func Cluster(articles []Article, threshold float64) []Group {
	if len(articles) == 0 {
		return nil
	}

	used := make([]bool, len(articles))
	groups := make([]Group, 0, len(articles))

	for i, anchor := range articles {
		if used[i] {
			continue
		}
		group := Group{anchor}
		used[i] = true

		for j, other := range articles {
			if used[j] {
				continue
			}
			if Similarity(anchor.Title, other.Title) >= threshold {
				group = append(group, other)
				used[j] = true
			}
		}
		groups = append(groups, group)
	}

	return groups
}
