package kargopress

import (
	"encoding/json"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

var reHTMLTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup from stored article content, leaving plain text
// with collapsed whitespace.
func StripHTML(s string) string {
	s = reHTMLTag.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt strips markup from s and truncates it to at most max runes,
// appending an ellipsis when anything was cut.
func Excerpt(s string, max int) string {
	plain := StripHTML(s)
	if utf8.RuneCountInString(plain) <= max {
		return plain
	}
	runes := []rune(plain)
	cut := strings.TrimRight(string(runes[:max]), " ")
	return cut + "..."
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(cfg Config) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD returns a JSON-LD string for a NewsArticle or Article schema,
// in the language the page is rendered in.
func ArticleJsonLD(art Article, lang Lang, cfg Config) string {
	section := "useful-info"
	schemaType := "Article"
	if art.Type == TypeNews {
		section = "news"
		schemaType = "NewsArticle"
	}
	articleURL := BuildURL(cfg.URL, section, art.LocalizedSlug(lang))
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         schemaType,
		"headline":      art.LocalizedTitle(lang),
		"description":   art.LocalizedMetaDescription(lang),
		"datePublished": art.PublishDate.Format("2006-01-02"),
		"dateModified":  art.UpdateDate.Format("2006-01-02"),
		"url":           articleURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if art.ImageURL != "" {
		data["image"] = BuildURL(cfg.URL) + strings.TrimPrefix(art.ImageURL, "/")
	}
	if tags := art.LocalizedTags(lang); tags != "" {
		data["keywords"] = strings.Join(SplitTags(tags), ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
