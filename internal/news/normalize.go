package news

import "strings"

// Replaced in this order, each over the whole string.
var entities = [][2]string{
	{"&quot;", `"`},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
}

// StripBold removes the <b> and </b> highlight tags the search API wraps
// around matched terms.
func StripBold(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	return strings.ReplaceAll(s, "</b>", "")
}

// CleanTitle returns the display form of a raw title: highlight tags
// removed, the four common entities unescaped, surrounding space trimmed.
func CleanTitle(s string) string {
	s = StripBold(s)
	for _, e := range entities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	return strings.TrimSpace(s)
}

// NormalizeTitle returns the comparison form of a raw title. Two articles
// with equal normalized titles are treated as the same article.
func NormalizeTitle(s string) string {
	s = strings.Join(strings.Fields(CleanTitle(s)), " ")
	return strings.TrimSpace(strings.ToLower(s))
}
