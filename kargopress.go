// Package kargopress is a bilingual (TR/EN) content engine for a logistics
// company site, built with Go, Echo, and templ. It serves the public news
// and useful-info pages and an admin panel for managing articles and
// site-wide settings.
//
// Users provide their own templ components via the ViewFuncs struct, and
// kargopress handles the handler logic, middleware, storage, and uploads.
package kargopress

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets
// users own and customize all templates.
type ViewFuncs struct {
	Home             func(vm HomeView) templ.Component
	NewsList         func(vm ListView) templ.Component
	NewsDetail       func(vm DetailView) templ.Component
	UsefulInfoList   func(vm ListView) templ.Component
	UsefulInfoDetail func(vm DetailView) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(vm AdminDashboardView) templ.Component
	AdminArticleForm func(vm AdminFormView) templ.Component
	AdminSettings    func(vm AdminSettingsView) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// HomeView feeds the landing page template.
type HomeView struct {
	Settings   SiteSettings
	Lang       Lang
	LatestNews []Article
}

// ListView feeds the news and useful-info listing templates, including the
// search and tag-filtered variants.
type ListView struct {
	Settings   SiteSettings
	Lang       Lang
	Type       ArticleType
	Articles   []Article
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	ActiveTag  string
	Query      string
	Tags       []TagCount
}

// DetailView feeds the article detail templates.
type DetailView struct {
	Settings      SiteSettings
	Lang          Lang
	Article       Article
	Related       []Article
	RelatedReason RelatedReason
	Meta          PageMeta
}

// AdminDashboardView feeds the admin article list.
type AdminDashboardView struct {
	Articles  []Article
	Message   string
	CSRFToken string
}

// AdminFormView feeds the create/edit article form. Errors maps field names
// to validation messages.
type AdminFormView struct {
	Article   Article
	IsNew     bool
	Errors    map[string]string
	Message   string
	CSRFToken string
}

// AdminSettingsView feeds the site settings form.
type AdminSettingsView struct {
	Settings  SiteSettings
	Message   string
	CSRFToken string
}

// App is the central kargopress application. It wires together the store,
// file storage, article service, handlers, middleware, and user-provided
// templates.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Store    *Store
	Files    *FileStore
	Articles *ArticleService
	Views    ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new kargopress App with the given configuration and view
// functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, file storage, article service, middleware,
// and routes, then starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("kargopress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("kargopress: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("kargopress: init store: %w", err)
	}
	a.Store = store

	a.Files = NewFileStore(a.staticDir)
	a.Articles = NewArticleService(a.Store, a.Files, a.Config.DefaultType)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/news/", a.handleNewsList)
	e.GET("/news/search/", a.handleNewsSearch)
	e.GET("/news/tag/:tag/", a.handleNewsTag)
	e.GET("/news/:slug/", a.handleNewsDetail)
	e.GET("/useful-info/", a.handleUsefulInfoList)
	e.GET("/useful-info/search/", a.handleUsefulInfoSearch)
	e.GET("/useful-info/tag/:tag/", a.handleUsefulInfoTag)
	e.GET("/useful-info/:slug/", a.handleUsefulInfoDetail)
	e.POST("/language/:lang/", a.handleSetLanguage)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/articles/new/", a.handleAdminArticleNew)
	e.POST("/admin/articles/new/", a.handleAdminArticleCreate)
	e.GET("/admin/articles/:id/", a.handleAdminArticleEdit)
	e.POST("/admin/articles/:id/", a.handleAdminArticleUpdate)
	e.DELETE("/admin/articles/:id/", a.handleAdminArticleDelete)
	e.GET("/admin/settings/", a.handleAdminSettings)
	e.POST("/admin/settings/", a.handleAdminSettingsSave)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty. Convenience for main.go files.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or panics if
// empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("kargopress: required environment variable %s is not set", key))
	}
	return v
}
