package news

import (
	"strings"
)

// Article is a single search result as returned by the news search API.
// The pipeline never mutates articles; it only selects, groups or drops them.
type Article struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink,omitempty"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

// Group is a non-empty set of articles judged to report the same story.
// The first element is the anchor that opened the group.
type Group []Article

// KeywordArticles holds the accepted articles of one keyword, in search order.
type KeywordArticles struct {
	Keyword  string
	Articles []Article
}

// KeywordGroups holds the similarity groups of one keyword.
type KeywordGroups struct {
	Keyword string
	Groups  []Group
}

// Size returns the number of articles across all groups.
func (kg KeywordGroups) Size() int {
	n := 0
	for _, g := range kg.Groups {
		n += len(g)
	}
	return n
}

// MatchesKeyword reports whether the keyword occurs, case-insensitively,
// in the cleaned title or the cleaned description.
func MatchesKeyword(a Article, keyword string) bool {
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(CleanTitle(a.Title)), kw) ||
		strings.Contains(strings.ToLower(CleanTitle(a.Description)), kw)
}
