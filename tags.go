package kargopress

import (
	"log"
	"sort"
	"strings"
)

// AvailableTags builds the frequency-sorted tag index for one listing:
// published articles of typ, using the tag column that matches lang.
// This is a display-only helper: on any storage failure it logs and
// returns an empty list instead of erroring.
func (svc *ArticleService) AvailableTags(typ ArticleType, lang Lang) []TagCount {
	columns, err := svc.store.TagColumns(typ, lang)
	if err != nil {
		log.Printf("kargopress: tag index for %s/%s degraded: %v", typ, lang, err)
		return nil
	}
	return countTags(columns)
}

// countTags splits each comma-separated tag string, counts occurrences
// case-insensitively while keeping the first-seen casing, and sorts by
// descending count with a case-insensitive ascending name tie-break.
func countTags(columns []string) []TagCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]string)
	for _, column := range columns {
		for _, tag := range SplitTags(column) {
			key := strings.ToLower(tag)
			if _, ok := firstSeen[key]; !ok {
				firstSeen[key] = tag
			}
			counts[key]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, TagCount{Name: firstSeen[key], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
