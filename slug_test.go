package kargopress

import "testing"

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Dijital Dönüşüm ve Lojistik", "dijital-donusum-ve-lojistik"},
		{"Kargo Takip Sistemi", "kargo-takip-sistemi"},
		{"İstanbul'dan Şırnak'a Güvenli Taşıma", "istanbuldan-sirnaka-guvenli-tasima"},
		{"ÇÖĞÜŞI", "cogusi"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   spaces\tand\ntabs", "multiple-spaces-and-tabs"},
		{"Already-Hyphenated - Title", "already-hyphenated-title"},
		{"Price: 100% (discount!)", "price-100-discount"},
		{"--- edges ---", "edges"},
		{"çok-çok---iyi", "cok-cok-iyi"},
	}

	for _, tt := range tests {
		if got := GenerateSlug(tt.title); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestGenerateSlugFallbackToken(t *testing.T) {
	// Titles that are empty or normalize to nothing still produce a usable,
	// non-empty slug, and two calls never collide.
	for _, title := range []string{"", "!!!", "???", "本"} {
		first := GenerateSlug(title)
		second := GenerateSlug(title)
		if first == "" || second == "" {
			t.Fatalf("GenerateSlug(%q) produced an empty slug", title)
		}
		if first == second {
			t.Errorf("GenerateSlug(%q) produced identical fallback tokens %q", title, first)
		}
	}
}
