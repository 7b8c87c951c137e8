package kargopress

import "testing"

func TestCountTags(t *testing.T) {
	columns := []string{
		"Lojistik, IoT",
		"lojistik, Teknoloji",
	}

	got := countTags(columns)
	want := []TagCount{
		{Name: "Lojistik", Count: 2},
		{Name: "IoT", Count: 1},
		{Name: "Teknoloji", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("countTags returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("countTags[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCountTagsKeepsFirstSeenCasing(t *testing.T) {
	got := countTags([]string{"ekspres", "Ekspres", "EKSPRES"})
	if len(got) != 1 {
		t.Fatalf("countTags returned %d entries, want 1", len(got))
	}
	if got[0].Name != "ekspres" || got[0].Count != 3 {
		t.Errorf("countTags = %+v, want {ekspres 3}", got[0])
	}
}

func TestCountTagsEmpty(t *testing.T) {
	if got := countTags(nil); len(got) != 0 {
		t.Errorf("countTags(nil) = %v, want empty", got)
	}
	if got := countTags([]string{"", " , ,"}); len(got) != 0 {
		t.Errorf("countTags(blank) = %v, want empty", got)
	}
}

func TestAvailableTags(t *testing.T) {
	s := setupTestStore(t)
	svc := NewArticleService(s, &fakeImageStore{}, TypeNews)

	insertArticle(t, s, Article{Title: "A", Content: "c", Tags: "Lojistik, IoT", TagsEn: "Logistics", Published: true}, 0)
	insertArticle(t, s, Article{Title: "B", Content: "c", Tags: "lojistik, Teknoloji", Published: true}, 1)
	insertArticle(t, s, Article{Title: "Draft", Content: "c", Tags: "Gizli", Published: false}, 2)
	insertArticle(t, s, Article{Title: "Info", Content: "c", Tags: "Depo", Published: true, Type: TypeUsefulInfo}, 3)

	got := svc.AvailableTags(TypeNews, LangTR)
	want := []TagCount{
		{Name: "Lojistik", Count: 2},
		{Name: "IoT", Count: 1},
		{Name: "Teknoloji", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("AvailableTags returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AvailableTags[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// English index reads the English tag column.
	gotEn := svc.AvailableTags(TypeNews, LangEN)
	if len(gotEn) != 1 || gotEn[0].Name != "Logistics" {
		t.Errorf("AvailableTags(en) = %v, want [Logistics]", gotEn)
	}
}
