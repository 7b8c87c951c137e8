package kargopress

// Config holds all configuration for a kargopress site.
type Config struct {
	Name        string // Site name (default "Kargopress")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	AdminPassword string // Required: admin login password
	AdminUser     string // Author id recorded on articles created in the admin panel (default "admin")
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	DefaultType        ArticleType // Category applied when a create omits one (default useful info)
	NewsPageSize       int         // News listing page size (default 6)
	UsefulInfoPageSize int         // Useful-info listing page size (default 12)
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Kargopress"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.AdminUser == "" {
		c.AdminUser = "admin"
	}
	if !c.DefaultType.Valid() {
		c.DefaultType = TypeUsefulInfo
	}
	if c.NewsPageSize == 0 {
		c.NewsPageSize = 6
	}
	if c.UsefulInfoPageSize == 0 {
		c.UsefulInfoPageSize = 12
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploads
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
