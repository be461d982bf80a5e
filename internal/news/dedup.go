package news

// SeenSet tracks the identities already accepted: article links and
// normalized titles. It only grows.
type SeenSet struct {
	links  map[string]struct{}
	titles map[string]struct{}
}

// NewSeenSet returns a set seeded with links collected by earlier runs.
// Titles are never seeded from history.
func NewSeenSet(links map[string]struct{}) *SeenSet {
	s := &SeenSet{
		links:  make(map[string]struct{}, len(links)),
		titles: make(map[string]struct{}),
	}
	for l := range links {
		s.links[l] = struct{}{}
	}
	return s
}

// Has reports whether the article's link or normalized title was seen.
func (s *SeenSet) Has(a Article) bool {
	if _, ok := s.links[a.Link]; ok {
		return true
	}
	_, ok := s.titles[NormalizeTitle(a.Title)]
	return ok
}

// Add records the article's link and normalized title.
func (s *SeenSet) Add(a Article) {
	s.links[a.Link] = struct{}{}
	s.titles[NormalizeTitle(a.Title)] = struct{}{}
}

// Len returns the number of distinct links in the set.
func (s *SeenSet) Len() int {
	return len(s.links)
}

// Deduplicate walks keywords in the given order and, inside each keyword,
// articles in search order, keeping only articles whose link and
// normalized title are both unseen. Accepted articles are added to seen,
// so an article found under several keywords stays with the first one.
// Keywords with nothing accepted are left out of the result.
func Deduplicate(keywords []string, perKeyword map[string][]Article, seen *SeenSet) []KeywordArticles {
	var out []KeywordArticles

	for _, kw := range keywords {
		articles, ok := perKeyword[kw]
		if !ok {
			continue
		}

		var accepted []Article
		for _, a := range articles {
			if seen.Has(a) {
				continue
			}
			seen.Add(a)
			accepted = append(accepted, a)
		}

		if len(accepted) > 0 {
			out = append(out, KeywordArticles{Keyword: kw, Articles: accepted})
		}
	}

	return out
}
