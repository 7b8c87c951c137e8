package kargopress

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "news")},
		{Loc: BuildURL(base, "useful-info")},
	}

	sections := []struct {
		typ  ArticleType
		path string
	}{
		{TypeNews, "news"},
		{TypeUsefulInfo, "useful-info"},
	}
	for _, sec := range sections {
		// One oversized page instead of paging through; sitemaps allow 50k
		// entries and the site is nowhere near that.
		page, err := a.Store.ListPublished(sec.typ, 1, 50000)
		if err != nil {
			return err
		}
		for _, art := range page.Items {
			urls = append(urls, sitemapURL{
				Loc:     BuildURL(base, sec.path, art.Slug),
				LastMod: art.UpdateDate.Format("2006-01-02"),
			})
			if art.SlugEn != "" && art.SlugEn != art.Slug {
				urls = append(urls, sitemapURL{
					Loc:     BuildURL(base, sec.path, art.SlugEn),
					LastMod: art.UpdateDate.Format("2006-01-02"),
				})
			}
		}
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
