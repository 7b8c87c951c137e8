package kargopress

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// insertArticle stores an article with sensible defaults and returns it with
// its assigned ID. daysAgo orders articles in time without sleeping.
func insertArticle(t *testing.T, s *Store, a Article, daysAgo int) Article {
	t.Helper()
	if a.Type == "" {
		a.Type = TypeNews
	}
	if a.AuthorID == "" {
		a.AuthorID = "admin"
	}
	if a.Slug == "" {
		a.Slug = GenerateSlug(a.Title)
	}
	a.PublishDate = testBase.AddDate(0, 0, -daysAgo)
	a.UpdateDate = a.PublishDate
	if err := s.CreateArticle(&a); err != nil {
		t.Fatalf("CreateArticle(%q) failed: %v", a.Title, err)
	}
	return a
}

func TestCreateAndGetArticle(t *testing.T) {
	s := setupTestStore(t)

	a := Article{
		Title:           "Kargo Takip Sistemi",
		Content:         "<p>İçerik</p>",
		TitleEn:         "Cargo Tracking System",
		ContentEn:       "<p>Content</p>",
		Published:       true,
		MetaDescription: "desc",
		Tags:            "Lojistik, Teknoloji",
		TagsEn:          "Logistics, Technology",
		ViewCount:       5,
	}
	a = insertArticle(t, s, a, 0)
	if a.ID == 0 {
		t.Fatal("CreateArticle should assign an ID")
	}

	got, err := s.GetArticle(a.ID)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Title != a.Title || got.TitleEn != a.TitleEn {
		t.Errorf("titles = %q/%q, want %q/%q", got.Title, got.TitleEn, a.Title, a.TitleEn)
	}
	if got.Slug != "kargo-takip-sistemi" {
		t.Errorf("Slug = %q, want kargo-takip-sistemi", got.Slug)
	}
	if !got.Published {
		t.Error("Published should survive the round trip")
	}
	if got.ViewCount != 5 {
		t.Errorf("ViewCount = %d, want 5", got.ViewCount)
	}
	if !got.PublishDate.Equal(a.PublishDate) {
		t.Errorf("PublishDate = %v, want %v", got.PublishDate, a.PublishDate)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetArticle(42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateArticle(t *testing.T) {
	s := setupTestStore(t)

	a := insertArticle(t, s, Article{Title: "Original", Content: "c", Published: true}, 0)
	a.Title = "Changed"
	a.Slug = GenerateSlug(a.Title)
	a.Published = false
	if err := s.UpdateArticle(&a); err != nil {
		t.Fatalf("UpdateArticle failed: %v", err)
	}

	got, err := s.GetArticle(a.ID)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Title != "Changed" || got.Slug != "changed" || got.Published {
		t.Errorf("update did not persist: %+v", got)
	}
}

func TestUpdateArticleMissing(t *testing.T) {
	s := setupTestStore(t)

	a := Article{ID: 99, Title: "Ghost", Content: "c", AuthorID: "admin", Type: TypeNews}
	if err := s.UpdateArticle(&a); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing row, got %v", err)
	}
}

func TestDeleteArticle(t *testing.T) {
	s := setupTestStore(t)

	a := insertArticle(t, s, Article{Title: "To Delete", Content: "c"}, 0)
	if err := s.DeleteArticle(a.ID); err != nil {
		t.Fatalf("DeleteArticle failed: %v", err)
	}
	if _, err := s.GetArticle(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("article should be gone, got err %v", err)
	}

	// Deleting again is not an error.
	if err := s.DeleteArticle(a.ID); err != nil {
		t.Errorf("deleting a missing row should not error, got %v", err)
	}
}

func TestGetPublishedFiltering(t *testing.T) {
	s := setupTestStore(t)

	draft := insertArticle(t, s, Article{Title: "Draft", Content: "c", Published: false}, 0)
	wrongType := insertArticle(t, s, Article{Title: "Info", Content: "c", Published: true, Type: TypeUsefulInfo}, 0)
	live := insertArticle(t, s, Article{Title: "Live", Content: "c", Published: true}, 0)

	if _, err := s.GetPublished(draft.ID, TypeNews); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft should be invisible, got err %v", err)
	}
	if _, err := s.GetPublished(wrongType.ID, TypeNews); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong type should be invisible, got err %v", err)
	}
	if _, err := s.GetPublished(live.ID, TypeNews); err != nil {
		t.Errorf("published article should resolve, got err %v", err)
	}
}

func TestGetPublishedBySlugBothColumns(t *testing.T) {
	s := setupTestStore(t)

	a := insertArticle(t, s, Article{
		Title: "Yeni Depo", TitleEn: "New Warehouse",
		Content: "c", Published: true,
		SlugEn: "new-warehouse",
	}, 0)

	got, err := s.GetPublishedBySlug("yeni-depo", TypeNews)
	if err != nil || got.ID != a.ID {
		t.Fatalf("primary slug lookup failed: %v", err)
	}
	got, err = s.GetPublishedBySlug("new-warehouse", TypeNews)
	if err != nil || got.ID != a.ID {
		t.Fatalf("english slug lookup failed: %v", err)
	}
	if _, err := s.GetPublishedBySlug("missing", TypeNews); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing slug should be ErrNotFound, got %v", err)
	}
}

func TestListPublishedPagination(t *testing.T) {
	s := setupTestStore(t)

	for i := 0; i < 7; i++ {
		insertArticle(t, s, Article{Title: "News", Content: "c", Published: true, Slug: GenerateSlug("News") + "-x"}, i)
	}
	insertArticle(t, s, Article{Title: "Draft", Content: "c", Published: false}, 0)

	var seen int
	for page := 1; page <= 3; page++ {
		got, err := s.ListPublished(TypeNews, page, 3)
		if err != nil {
			t.Fatalf("ListPublished page %d failed: %v", page, err)
		}
		if got.TotalCount != 7 {
			t.Errorf("TotalCount = %d, want 7", got.TotalCount)
		}
		if got.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", got.TotalPages)
		}
		if got.Page != page {
			t.Errorf("Page = %d, want %d", got.Page, page)
		}
		seen += len(got.Items)
	}
	if seen != 7 {
		t.Errorf("pages covered %d items, want 7", seen)
	}

	// Past the end: still a valid page shape, just empty.
	got, err := s.ListPublished(TypeNews, 4, 3)
	if err != nil {
		t.Fatalf("ListPublished past end failed: %v", err)
	}
	if len(got.Items) != 0 || got.TotalCount != 7 {
		t.Errorf("page 4 = %d items / total %d, want 0 / 7", len(got.Items), got.TotalCount)
	}
}

func TestListPublishedOrder(t *testing.T) {
	s := setupTestStore(t)

	insertArticle(t, s, Article{Title: "Oldest", Content: "c", Published: true}, 2)
	insertArticle(t, s, Article{Title: "Newest", Content: "c", Published: true}, 0)
	insertArticle(t, s, Article{Title: "Middle", Content: "c", Published: true}, 1)

	got, err := s.ListPublished(TypeNews, 1, 10)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	want := []string{"Newest", "Middle", "Oldest"}
	for i, title := range want {
		if got.Items[i].Title != title {
			t.Errorf("Items[%d] = %q, want %q", i, got.Items[i].Title, title)
		}
	}
}

func TestSearchPublished(t *testing.T) {
	s := setupTestStore(t)

	insertArticle(t, s, Article{Title: "Kargo Takip", Content: "içerik", Published: true}, 0)
	insertArticle(t, s, Article{Title: "Depo", Content: "kargo elleçleme", Published: true}, 1)
	insertArticle(t, s, Article{Title: "Gümrük", TitleEn: "Customs cargo rules", Content: "c", Published: true}, 2)
	insertArticle(t, s, Article{Title: "Etiketli", Content: "c", Tags: "ekspres kargo", Published: true}, 3)
	insertArticle(t, s, Article{Title: "Alakasız", Content: "c", Published: true}, 4)
	insertArticle(t, s, Article{Title: "Taslak kargo", Content: "c", Published: false}, 5)

	got, err := s.SearchPublished(TypeNews, "kargo", 1, 10)
	if err != nil {
		t.Fatalf("SearchPublished failed: %v", err)
	}
	if got.TotalCount != 3 {
		t.Errorf("kargo matches = %d, want 3 (title, content, tags)", got.TotalCount)
	}

	got, err = s.SearchPublished(TypeNews, "KARGO", 1, 10)
	if err != nil {
		t.Fatalf("SearchPublished failed: %v", err)
	}
	if got.TotalCount != 3 {
		t.Errorf("KARGO matches = %d, want 3 (case-insensitive)", got.TotalCount)
	}

	got, err = s.SearchPublished(TypeNews, "cargo", 1, 10)
	if err != nil {
		t.Fatalf("SearchPublished failed: %v", err)
	}
	if got.TotalCount != 1 {
		t.Errorf("cargo matches = %d, want 1 (english title)", got.TotalCount)
	}

	// Empty query falls back to the plain listing.
	got, err = s.SearchPublished(TypeNews, "", 1, 10)
	if err != nil {
		t.Fatalf("SearchPublished failed: %v", err)
	}
	if got.TotalCount != 5 {
		t.Errorf("empty query matches = %d, want 5", got.TotalCount)
	}
}

func TestListPublishedByTag(t *testing.T) {
	s := setupTestStore(t)

	insertArticle(t, s, Article{Title: "A", Content: "c", Tags: "Lojistik, IoT", Published: true}, 0)
	insertArticle(t, s, Article{Title: "B", Content: "c", TagsEn: "Logistics", Published: true}, 1)
	insertArticle(t, s, Article{Title: "C", Content: "c", Tags: "Gümrük", Published: true}, 2)

	got, err := s.ListPublishedByTag(TypeNews, "Lojistik", 1, 10)
	if err != nil {
		t.Fatalf("ListPublishedByTag failed: %v", err)
	}
	if got.TotalCount != 1 {
		t.Errorf("Lojistik matches = %d, want 1", got.TotalCount)
	}

	got, err = s.ListPublishedByTag(TypeNews, "Logistics", 1, 10)
	if err != nil {
		t.Fatalf("ListPublishedByTag failed: %v", err)
	}
	if got.TotalCount != 1 {
		t.Errorf("Logistics matches = %d, want 1 (english tags)", got.TotalCount)
	}
}

func TestIncrementView(t *testing.T) {
	s := setupTestStore(t)

	a := insertArticle(t, s, Article{Title: "Viewed", Content: "c", Published: true}, 0)
	for i := 0; i < 3; i++ {
		if err := s.IncrementView(a.ID); err != nil {
			t.Fatalf("IncrementView failed: %v", err)
		}
	}

	got, err := s.GetArticle(a.ID)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.ViewCount != 3 {
		t.Errorf("ViewCount = %d, want 3", got.ViewCount)
	}
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)

	// Missing key reads as empty, not an error.
	val, err := s.GetSetting("site_title")
	if err != nil || val != "" {
		t.Fatalf("GetSetting(missing) = %q, %v; want empty, nil", val, err)
	}

	if err := s.SetSetting("site_title", "Kargopress"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetSetting("site_title", "Kargopress 2"); err != nil {
		t.Fatalf("SetSetting upsert failed: %v", err)
	}

	val, err = s.GetSetting("site_title")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if val != "Kargopress 2" {
		t.Errorf("GetSetting = %q, want %q", val, "Kargopress 2")
	}
}

func TestSiteSettingsRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	ss := SiteSettings{
		SiteTitle:    "Kargo A.Ş.",
		ContactEmail: "info@example.com",
		LinkedInURL:  "https://linkedin.com/company/kargo",
	}
	if err := ss.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadSiteSettings(s)
	if err != nil {
		t.Fatalf("LoadSiteSettings failed: %v", err)
	}
	if got != ss {
		t.Errorf("round trip = %+v, want %+v", got, ss)
	}
}
