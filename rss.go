package kargopress

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	page, err := a.Store.ListPublished(TypeNews, 1, 20)
	if err != nil {
		return err
	}

	base := a.Config.URL
	items := make([]rssItem, 0, len(page.Items))
	for _, art := range page.Items {
		articleURL := BuildURL(base, "news", art.Slug)
		desc := art.MetaDescription
		if desc == "" {
			desc = Excerpt(art.Content, 160)
		}
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        articleURL,
			Description: desc,
			PubDate:     art.PublishDate.Format(time.RFC1123Z),
			GUID:        articleURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
