package kargopress

import (
	"fmt"
	"strings"
	"time"
)

// ArticleType is the closed set of content categories. Each type drives its
// own public listing ("Haber" feeds the news pages, "Faydalı Bilgi" the
// useful-info pages).
type ArticleType string

const (
	TypeNews       ArticleType = "Haber"
	TypeUsefulInfo ArticleType = "Faydalı Bilgi"
)

// Valid reports whether t is one of the known article types.
func (t ArticleType) Valid() bool {
	return t == TypeNews || t == TypeUsefulInfo
}

// ParseArticleType converts a raw string into an ArticleType, rejecting
// anything outside the closed set.
func ParseArticleType(s string) (ArticleType, error) {
	t := ArticleType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("kargopress: unknown article type %q", s)
	}
	return t, nil
}

// Lang identifies the display language for a request.
type Lang string

const (
	LangTR Lang = "tr"
	LangEN Lang = "en"
)

// ParseLang normalizes a raw language code, falling back to Turkish for
// anything unrecognized.
func ParseLang(s string) Lang {
	if strings.EqualFold(strings.TrimSpace(s), "en") {
		return LangEN
	}
	return LangTR
}

// Article is the single domain entity: a bilingual news or useful-info post.
// Tags and TagsEn hold comma-separated lists exactly as entered (trimmed per
// segment when split, never rewritten in storage).
type Article struct {
	ID                int64
	Title             string
	Content           string
	TitleEn           string
	ContentEn         string
	ImageURL          string
	PublishDate       time.Time
	UpdateDate        time.Time
	Published         bool
	AuthorID          string
	MetaDescription   string
	MetaDescriptionEn string
	Tags              string
	TagsEn            string
	Slug              string
	SlugEn            string
	ViewCount         int
	Type              ArticleType
}

// HasTranslation reports whether the article carries a complete English
// translation (both title and content present).
func (a Article) HasTranslation() bool {
	return a.TitleEn != "" && a.ContentEn != ""
}

// TagList returns the primary-language tags split and trimmed.
func (a Article) TagList() []string {
	return SplitTags(a.Tags)
}

// TagListEn returns the English tags split and trimmed.
func (a Article) TagListEn() []string {
	return SplitTags(a.TagsEn)
}

// LocalizedTitle returns the English title when lang is "en" and the field
// has a translation, otherwise the Turkish title. The remaining Localized*
// accessors follow the same per-field fallback rule.
func (a Article) LocalizedTitle(lang Lang) string {
	if lang == LangEN && a.TitleEn != "" {
		return a.TitleEn
	}
	return a.Title
}

func (a Article) LocalizedContent(lang Lang) string {
	if lang == LangEN && a.ContentEn != "" {
		return a.ContentEn
	}
	return a.Content
}

func (a Article) LocalizedMetaDescription(lang Lang) string {
	if lang == LangEN && a.MetaDescriptionEn != "" {
		return a.MetaDescriptionEn
	}
	return a.MetaDescription
}

func (a Article) LocalizedTags(lang Lang) string {
	if lang == LangEN && a.TagsEn != "" {
		return a.TagsEn
	}
	return a.Tags
}

func (a Article) LocalizedSlug(lang Lang) string {
	if lang == LangEN && a.SlugEn != "" {
		return a.SlugEn
	}
	return a.Slug
}

// SplitTags splits a comma-separated tag field into trimmed, non-empty
// segments. The stored string is never normalized beyond this.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TagCount is one entry of the frequency-sorted tag index.
type TagCount struct {
	Name  string
	Count int
}

// RelatedReason tells detail templates which fallback tier produced the
// related-articles block.
type RelatedReason string

const (
	RelatedByTags       RelatedReason = "related"
	RelatedByPopularity RelatedReason = "popular"
	RelatedByRecency    RelatedReason = "recent"
)

// ArticlePage is one page of a listing or search result.
type ArticlePage struct {
	Items      []Article
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	Image       string // og:image, empty when the article has none
	OGType      string // "website" or "article"
}
