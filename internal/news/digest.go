package news

import (
	"bytes"
	"encoding/json"
)

// KeywordCount is the number of accepted articles for one keyword.
type KeywordCount struct {
	Keyword string
	Count   int
}

// Stats summarizes a digest. Counts are articles, not groups.
type Stats struct {
	TotalNews int
	ByKeyword []KeywordCount
}

// Digest is the clustered result of one run, in keyword order.
type Digest struct {
	Keywords []KeywordGroups
	Stats    Stats
}

// Empty reports whether nothing was accepted.
func (d Digest) Empty() bool {
	return d.Stats.TotalNews == 0
}

// GroupCount returns the number of groups across all keywords.
func (d Digest) GroupCount() int {
	n := 0
	for _, kg := range d.Keywords {
		n += len(kg.Groups)
	}
	return n
}

// Links returns every article link in the digest.
func (d Digest) Links() []string {
	var links []string
	for _, kg := range d.Keywords {
		for _, g := range kg.Groups {
			for _, a := range g {
				links = append(links, a.Link)
			}
		}
	}
	return links
}

// BuildDigest deduplicates the per-keyword search results against seen
// and clusters what is left of each keyword.
func BuildDigest(keywords []string, perKeyword map[string][]Article, seen *SeenSet, threshold float64) Digest {
	var d Digest
	for _, ka := range Deduplicate(keywords, perKeyword, seen) {
		d.Keywords = append(d.Keywords, KeywordGroups{
			Keyword: ka.Keyword,
			Groups:  Cluster(ka.Articles, threshold),
		})
		d.Stats.TotalNews += len(ka.Articles)
		d.Stats.ByKeyword = append(d.Stats.ByKeyword, KeywordCount{Keyword: ka.Keyword, Count: len(ka.Articles)})
	}
	return d
}

// MarshalJSON writes the per-keyword counts as an object in keyword order.
func (s Stats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"total_news":`)
	total, _ := marshal(s.TotalNews)
	buf.Write(total)
	buf.WriteString(`,"by_keyword":{`)
	for i, kc := range s.ByKeyword {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(kc.Keyword)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		c, _ := marshal(kc.Count)
		buf.Write(c)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// GroupsByKeyword marshals as a JSON object mapping keyword to its list of
// groups, preserving keyword order.
type GroupsByKeyword []KeywordGroups

func (gk GroupsByKeyword) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kg := range gk {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(kg.Keyword)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		groups := kg.Groups
		if groups == nil {
			groups = []Group{}
		}
		v, err := marshal(groups)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without escaping <, > and &, which raw titles carry.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
