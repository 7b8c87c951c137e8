package kargopress

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const homeNewsCount = 3

// siteSettings loads the settings every public page carries. A read failure
// is logged and the page renders with empty settings.
func (a *App) siteSettings() SiteSettings {
	ss, err := LoadSiteSettings(a.Store)
	if err != nil {
		log.Printf("kargopress: load site settings degraded: %v", err)
		return SiteSettings{}
	}
	return ss
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (a *App) handleHome(c echo.Context) error {
	latest, err := a.Articles.ListPublished(TypeNews, 1, homeNewsCount)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(HomeView{
		Settings:   a.siteSettings(),
		Lang:       CurrentLanguage(c),
		LatestNews: latest.Items,
	}))
}

func (a *App) handleNewsList(c echo.Context) error {
	return a.renderListing(c, TypeNews, a.Config.NewsPageSize, "", c.QueryParam("query"))
}

func (a *App) handleNewsSearch(c echo.Context) error {
	return a.renderListing(c, TypeNews, a.Config.NewsPageSize, "", c.QueryParam("query"))
}

func (a *App) handleNewsTag(c echo.Context) error {
	return a.renderListing(c, TypeNews, a.Config.NewsPageSize, c.Param("tag"), "")
}

func (a *App) handleNewsDetail(c echo.Context) error {
	return a.renderDetail(c, TypeNews)
}

func (a *App) handleUsefulInfoList(c echo.Context) error {
	return a.renderListing(c, TypeUsefulInfo, a.Config.UsefulInfoPageSize, c.QueryParam("tag"), c.QueryParam("query"))
}

func (a *App) handleUsefulInfoSearch(c echo.Context) error {
	return a.renderListing(c, TypeUsefulInfo, a.Config.UsefulInfoPageSize, "", c.QueryParam("query"))
}

func (a *App) handleUsefulInfoTag(c echo.Context) error {
	return a.renderListing(c, TypeUsefulInfo, a.Config.UsefulInfoPageSize, c.Param("tag"), "")
}

func (a *App) handleUsefulInfoDetail(c echo.Context) error {
	return a.renderDetail(c, TypeUsefulInfo)
}

// renderListing serves the plain, searched, and tag-filtered listing pages
// for both article types. A tag filter wins over a search query when both
// arrive.
func (a *App) renderListing(c echo.Context, typ ArticleType, pageSize int, tag, query string) error {
	lang := CurrentLanguage(c)
	page := pageParam(c)

	var (
		result ArticlePage
		err    error
	)
	switch {
	case tag != "":
		result, err = a.Articles.ListByTag(typ, tag, page, pageSize)
	case query != "":
		result, err = a.Articles.Search(typ, query, page, pageSize)
	default:
		result, err = a.Articles.ListPublished(typ, page, pageSize)
	}
	if err != nil {
		return err
	}

	vm := ListView{
		Settings:   a.siteSettings(),
		Lang:       lang,
		Type:       typ,
		Articles:   result.Items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
		ActiveTag:  tag,
		Query:      query,
		Tags:       a.Articles.AvailableTags(typ, lang),
	}
	if typ == TypeNews {
		return Render(c, a.Views.NewsList(vm))
	}
	return Render(c, a.Views.UsefulInfoList(vm))
}

var allDigits = regexp.MustCompile(`^\d+$`)

// renderDetail serves the article detail pages. The path segment is a slug,
// with a numeric fallback so legacy id links keep resolving. Every successful
// view bumps the article's counter.
func (a *App) renderDetail(c echo.Context, typ ArticleType) error {
	ref := c.Param("slug")
	var id int64
	if allDigits.MatchString(ref) {
		id, _ = strconv.ParseInt(ref, 10, 64)
	}

	art, err := a.Articles.IncrementViewAndGet(id, ref, typ)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	lang := CurrentLanguage(c)

	vm := DetailView{
		Settings: a.siteSettings(),
		Lang:     lang,
		Article:  art,
		Meta:     a.pageMeta(art, lang, typ),
	}
	if typ == TypeNews {
		vm.Related, vm.RelatedReason = a.Articles.RelatedArticles(art)
		return Render(c, a.Views.NewsDetail(vm))
	}
	vm.Related = a.Articles.RelatedPadded(art, 4)
	vm.RelatedReason = RelatedByTags
	return Render(c, a.Views.UsefulInfoDetail(vm))
}

func (a *App) pageMeta(art Article, lang Lang, typ ArticleType) PageMeta {
	desc := art.LocalizedMetaDescription(lang)
	if desc == "" {
		desc = Excerpt(art.LocalizedContent(lang), 160)
	}
	section := "news"
	if typ == TypeUsefulInfo {
		section = "useful-info"
	}
	return PageMeta{
		Title:       art.LocalizedTitle(lang),
		Description: desc,
		URL:         fmt.Sprintf("%s/%s/%s/", a.Config.URL, section, art.LocalizedSlug(lang)),
		Image:       art.ImageURL,
		OGType:      "article",
	}
}

// handleSetLanguage stores the visitor's language in their session and sends
// them back where they came from. Only local return paths are honored.
func (a *App) handleSetLanguage(c echo.Context) error {
	lang := ParseLang(c.Param("lang"))
	if err := setLanguage(c, lang); err != nil {
		return err
	}
	returnURL := c.FormValue("returnUrl")
	if returnURL == "" || !strings.HasPrefix(returnURL, "/") || strings.HasPrefix(returnURL, "//") {
		returnURL = "/"
	}
	return c.Redirect(http.StatusSeeOther, returnURL)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
