package kargopress

import "log"

const relatedLimit = 3

// RelatedArticles selects up to three companions for a detail page using a
// tiered fallback: articles sharing a tag win if at least two exist, then
// the most viewed, then simply the most recent. The current article is never
// included, and only published articles of the same type qualify. Failures
// degrade to an empty "recent" block; related content is a presentation
// aid and never worth failing the page over.
func (svc *ArticleService) RelatedArticles(current Article) ([]Article, RelatedReason) {
	if tags := current.TagList(); len(tags) > 0 {
		matched, err := svc.store.TagMatchedExcept(current.Type, current.ID, tags, relatedLimit)
		if err != nil {
			log.Printf("kargopress: related-by-tag lookup for article %d degraded: %v", current.ID, err)
		} else if len(matched) >= 2 {
			return matched, RelatedByTags
		}
	}

	popular, err := svc.store.PopularExcept(current.Type, current.ID, relatedLimit)
	if err != nil {
		log.Printf("kargopress: related-by-popularity lookup for article %d degraded: %v", current.ID, err)
	} else if len(popular) >= 2 {
		return popular, RelatedByPopularity
	}

	recent, err := svc.store.RecentExcept(current.Type, current.ID, relatedLimit)
	if err != nil {
		log.Printf("kargopress: related-by-recency lookup for article %d degraded: %v", current.ID, err)
		return nil, RelatedByRecency
	}
	return recent, RelatedByRecency
}

// RelatedPadded is the useful-info variant: tag-matched articles first,
// padded with the most recent not already present, until limit or the pool
// runs out. No tier reason is reported.
func (svc *ArticleService) RelatedPadded(current Article, limit int) []Article {
	var related []Article
	if tags := current.TagList(); len(tags) > 0 {
		matched, err := svc.store.TagMatchedExcept(current.Type, current.ID, tags, limit)
		if err != nil {
			log.Printf("kargopress: related lookup for article %d degraded: %v", current.ID, err)
		} else {
			related = matched
		}
	}
	if len(related) >= limit {
		return related
	}

	exclude := make([]int64, 0, len(related)+1)
	exclude = append(exclude, current.ID)
	for _, a := range related {
		exclude = append(exclude, a.ID)
	}
	padding, err := svc.store.RecentExceptIDs(current.Type, exclude, limit-len(related))
	if err != nil {
		log.Printf("kargopress: related padding for article %d degraded: %v", current.ID, err)
		return related
	}
	return append(related, padding...)
}
