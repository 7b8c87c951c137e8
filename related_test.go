package kargopress

import "testing"

func TestRelatedArticlesByTags(t *testing.T) {
	s := setupTestStore(t)
	svc := NewArticleService(s, &fakeImageStore{}, TypeNews)

	current := insertArticle(t, s, Article{Title: "Current", Content: "c", Tags: "Lojistik, IoT", Published: true}, 0)
	insertArticle(t, s, Article{Title: "Match 1", Content: "c", Tags: "Lojistik", Published: true}, 1)
	insertArticle(t, s, Article{Title: "Match 2", Content: "c", Tags: "IoT, Depo", Published: true}, 2)
	insertArticle(t, s, Article{Title: "No Match", Content: "c", Tags: "Gümrük", Published: true}, 3)

	got, reason := svc.RelatedArticles(current)
	if reason != RelatedByTags {
		t.Fatalf("reason = %q, want %q", reason, RelatedByTags)
	}
	if len(got) != 2 {
		t.Fatalf("related count = %d, want 2: %v", len(got), got)
	}
	for _, a := range got {
		if a.ID == current.ID {
			t.Error("related block must not contain the current article")
		}
	}
}

func TestRelatedArticlesFallsBackToPopular(t *testing.T) {
	s := setupTestStore(t)
	svc := NewArticleService(s, &fakeImageStore{}, TypeNews)

	// Only one tag match exists, which is below the two-entry minimum, so the
	// popularity tier takes over.
	current := insertArticle(t, s, Article{Title: "Current", Content: "c", Tags: "IoT", Published: true}, 0)
	insertArticle(t, s, Article{Title: "Single Match", Content: "c", Tags: "IoT", ViewCount: 1, Published: true}, 1)
	insertArticle(t, s, Article{Title: "Very Popular", Content: "c", ViewCount: 90, Published: true}, 2)
	insertArticle(t, s, Article{Title: "Popular", Content: "c", ViewCount: 50, Published: true}, 3)

	got, reason := svc.RelatedArticles(current)
	if reason != RelatedByPopularity {
		t.Fatalf("reason = %q, want %q", reason, RelatedByPopularity)
	}
	if len(got) != 3 {
		t.Fatalf("related count = %d, want 3", len(got))
	}
	if got[0].Title != "Very Popular" || got[1].Title != "Popular" {
		t.Errorf("popularity order wrong: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestRelatedArticlesFallsBackToRecent(t *testing.T) {
	s := setupTestStore(t)
	svc := NewArticleService(s, &fakeImageStore{}, TypeNews)

	// One other article total: neither the tag tier nor the popularity tier
	// can produce two entries, so recency wins.
	current := insertArticle(t, s, Article{Title: "Current", Content: "c", Published: true}, 0)
	insertArticle(t, s, Article{Title: "Only Other", Content: "c", Published: true}, 1)

	got, reason := svc.RelatedArticles(current)
	if reason != RelatedByRecency {
		t.Fatalf("reason = %q, want %q", reason, RelatedByRecency)
	}
	if len(got) != 1 || got[0].Title != "Only Other" {
		t.Errorf("related = %v, want [Only Other]", got)
	}
}

func TestRelatedArticlesIgnoresDraftsAndOtherTypes(t *testing.T) {
	s := setupTestStore(t)
	svc := NewArticleService(s, &fakeImageStore{}, TypeNews)

	current := insertArticle(t, s, Article{Title: "Current", Content: "c", Tags: "IoT", Published: true}, 0)
	insertArticle(t, s, Article{Title: "Draft", Content: "c", Tags: "IoT", Published: false}, 1)
	insertArticle(t, s, Article{Title: "Info", Content: "c", Tags: "IoT", Published: true, Type: TypeUsefulInfo}, 2)

	got, reason := svc.RelatedArticles(current)
	if reason != RelatedByRecency {
		t.Fatalf("reason = %q, want %q", reason, RelatedByRecency)
	}
	if len(got) != 0 {
		t.Errorf("related = %v, want empty", got)
	}
}

func TestRelatedPadded(t *testing.T) {
	s := setupTestStore(t)
	svc := NewArticleService(s, &fakeImageStore{}, TypeUsefulInfo)

	current := insertArticle(t, s, Article{Title: "Current", Content: "c", Tags: "Depo", Published: true, Type: TypeUsefulInfo}, 0)
	match := insertArticle(t, s, Article{Title: "Tagged", Content: "c", Tags: "Depo", Published: true, Type: TypeUsefulInfo}, 1)
	insertArticle(t, s, Article{Title: "Filler 1", Content: "c", Published: true, Type: TypeUsefulInfo}, 2)
	insertArticle(t, s, Article{Title: "Filler 2", Content: "c", Published: true, Type: TypeUsefulInfo}, 3)
	insertArticle(t, s, Article{Title: "Filler 3", Content: "c", Published: true, Type: TypeUsefulInfo}, 4)

	got := svc.RelatedPadded(current, 4)
	if len(got) != 4 {
		t.Fatalf("padded count = %d, want 4", len(got))
	}
	if got[0].ID != match.ID {
		t.Errorf("tag-matched article should lead the block, got %q", got[0].Title)
	}
	seen := map[int64]bool{}
	for _, a := range got {
		if a.ID == current.ID {
			t.Error("padded block must not contain the current article")
		}
		if seen[a.ID] {
			t.Errorf("article %d appears twice in the padded block", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestRelatedPaddedSmallPool(t *testing.T) {
	s := setupTestStore(t)
	svc := NewArticleService(s, &fakeImageStore{}, TypeUsefulInfo)

	current := insertArticle(t, s, Article{Title: "Current", Content: "c", Published: true, Type: TypeUsefulInfo}, 0)
	insertArticle(t, s, Article{Title: "Only Other", Content: "c", Published: true, Type: TypeUsefulInfo}, 1)

	got := svc.RelatedPadded(current, 4)
	if len(got) != 1 {
		t.Errorf("padded count = %d, want 1 when the pool runs out", len(got))
	}
}
