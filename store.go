package kargopress

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested article does not exist, is
// unpublished, or belongs to a different type than the caller asked for.
// Callers treat it as a normal negative result, not a failure.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD and query operations for
// articles plus the key-value site settings table.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy timeout so writers wait
	// instead of failing with SQLITE_BUSY, synchronous=NORMAL is safe with
	// WAL; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    title_en TEXT NOT NULL DEFAULT '',
    content_en TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    publish_date TEXT NOT NULL,
    update_date TEXT NOT NULL,
    is_published INTEGER NOT NULL DEFAULT 0,
    author_id TEXT NOT NULL,
    meta_description TEXT NOT NULL DEFAULT '',
    meta_description_en TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    tags_en TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL DEFAULT '',
    slug_en TEXT NOT NULL DEFAULT '',
    view_count INTEGER NOT NULL DEFAULT 0,
    type TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_type_published ON articles(type, is_published);
CREATE INDEX IF NOT EXISTS idx_articles_slug ON articles(slug);
CREATE INDEX IF NOT EXISTS idx_articles_slug_en ON articles(slug_en);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

const articleColumns = `id, title, content, title_en, content_en, image_url,
	publish_date, update_date, is_published, author_id,
	meta_description, meta_description_en, tags, tags_en,
	slug, slug_en, view_count, type`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var publishDate, updateDate string
	var published int
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.TitleEn, &a.ContentEn, &a.ImageURL,
		&publishDate, &updateDate, &published, &a.AuthorID,
		&a.MetaDescription, &a.MetaDescriptionEn, &a.Tags, &a.TagsEn,
		&a.Slug, &a.SlugEn, &a.ViewCount, (*string)(&a.Type))
	if err != nil {
		return Article{}, err
	}
	a.Published = published == 1
	if t, err := time.Parse(time.RFC3339Nano, publishDate); err == nil {
		a.PublishDate = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updateDate); err == nil {
		a.UpdateDate = t
	}
	return a, nil
}

func (s *Store) queryArticles(query string, args ...any) ([]Article, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CreateArticle inserts a new article and assigns its ID.
func (s *Store) CreateArticle(a *Article) error {
	res, err := s.db.Exec(`INSERT INTO articles (title, content, title_en, content_en, image_url,
		publish_date, update_date, is_published, author_id,
		meta_description, meta_description_en, tags, tags_en,
		slug, slug_en, view_count, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Content, a.TitleEn, a.ContentEn, a.ImageURL,
		a.PublishDate.UTC().Format(time.RFC3339Nano), a.UpdateDate.UTC().Format(time.RFC3339Nano),
		boolToInt(a.Published), a.AuthorID,
		a.MetaDescription, a.MetaDescriptionEn, a.Tags, a.TagsEn,
		a.Slug, a.SlugEn, a.ViewCount, string(a.Type))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// UpdateArticle replaces every mutable field of the row identified by a.ID.
func (s *Store) UpdateArticle(a *Article) error {
	res, err := s.db.Exec(`UPDATE articles SET title = ?, content = ?, title_en = ?, content_en = ?,
		image_url = ?, publish_date = ?, update_date = ?, is_published = ?, author_id = ?,
		meta_description = ?, meta_description_en = ?, tags = ?, tags_en = ?,
		slug = ?, slug_en = ?, view_count = ?, type = ?
		WHERE id = ?`,
		a.Title, a.Content, a.TitleEn, a.ContentEn,
		a.ImageURL, a.PublishDate.UTC().Format(time.RFC3339Nano), a.UpdateDate.UTC().Format(time.RFC3339Nano),
		boolToInt(a.Published), a.AuthorID,
		a.MetaDescription, a.MetaDescriptionEn, a.Tags, a.TagsEn,
		a.Slug, a.SlugEn, a.ViewCount, string(a.Type),
		a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteArticle removes a row by id. Deleting a missing row is not an error.
func (s *Store) DeleteArticle(id int64) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE id = ?`, id)
	return err
}

// GetArticle returns an article by id regardless of published state (admin).
func (s *Store) GetArticle(id int64) (Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// GetPublished returns a published article of the given type by id.
func (s *Store) GetPublished(id int64, typ ArticleType) (Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles
		WHERE id = ? AND is_published = 1 AND type = ?`, id, string(typ))
	return scanArticle(row)
}

// GetPublishedBySlug returns a published article of the given type whose
// primary or English slug matches.
func (s *Store) GetPublishedBySlug(slug string, typ ArticleType) (Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles
		WHERE (slug = ? OR slug_en = ?) AND is_published = 1 AND type = ?`,
		slug, slug, string(typ))
	return scanArticle(row)
}

// ListAllArticles returns every article (drafts included) ordered by publish
// date descending, for the admin dashboard.
func (s *Store) ListAllArticles() ([]Article, error) {
	return s.queryArticles(`SELECT ` + articleColumns + ` FROM articles ORDER BY publish_date DESC`)
}

// listPage runs a paginated query over published articles of one type.
// Pages are 1-indexed; an out-of-range page yields an empty item list while
// TotalCount and TotalPages stay valid.
func (s *Store) listPage(where string, whereArgs []any, page, pageSize int) (ArticlePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	var total int
	countArgs := append([]any(nil), whereArgs...)
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE `+where, countArgs...).Scan(&total); err != nil {
		return ArticlePage{}, err
	}
	args := append(append([]any(nil), whereArgs...), pageSize, (page-1)*pageSize)
	items, err := s.queryArticles(`SELECT `+articleColumns+` FROM articles WHERE `+where+
		` ORDER BY publish_date DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return ArticlePage{}, err
	}
	return ArticlePage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// ListPublished returns one page of published articles of the given type,
// newest first.
func (s *Store) ListPublished(typ ArticleType, page, pageSize int) (ArticlePage, error) {
	return s.listPage(`is_published = 1 AND type = ?`, []any{string(typ)}, page, pageSize)
}

// SearchPublished returns articles where query is a substring of the title,
// content, or tags in either language. An empty query behaves exactly like
// ListPublished.
func (s *Store) SearchPublished(typ ArticleType, query string, page, pageSize int) (ArticlePage, error) {
	if query == "" {
		return s.ListPublished(typ, page, pageSize)
	}
	// lower() on both sides keeps the match case-insensitive for ASCII;
	// SQLite's lower() does not fold Turkish İ/ı, which is acceptable here.
	where := `is_published = 1 AND type = ? AND
		(instr(lower(title), lower(?)) > 0 OR instr(lower(title_en), lower(?)) > 0 OR
		 instr(lower(content), lower(?)) > 0 OR instr(lower(content_en), lower(?)) > 0 OR
		 instr(lower(tags), lower(?)) > 0 OR instr(lower(tags_en), lower(?)) > 0)`
	args := []any{string(typ), query, query, query, query, query, query}
	return s.listPage(where, args, page, pageSize)
}

// ListPublishedByTag returns articles whose tags field in either language
// contains tag as a substring. An empty tag behaves like ListPublished.
func (s *Store) ListPublishedByTag(typ ArticleType, tag string, page, pageSize int) (ArticlePage, error) {
	if tag == "" {
		return s.ListPublished(typ, page, pageSize)
	}
	where := `is_published = 1 AND type = ? AND (instr(tags, ?) > 0 OR instr(tags_en, ?) > 0)`
	return s.listPage(where, []any{string(typ), tag, tag}, page, pageSize)
}

// IncrementView bumps the view counter by exactly one. The increment runs in
// SQL so concurrent detail views never write a stale count back.
func (s *Store) IncrementView(id int64) error {
	_, err := s.db.Exec(`UPDATE articles SET view_count = view_count + 1 WHERE id = ?`, id)
	return err
}

// TagColumns returns the raw non-empty tag strings of published articles of
// the given type, using the column that matches lang.
func (s *Store) TagColumns(typ ArticleType, lang Lang) ([]string, error) {
	col := "tags"
	if lang == LangEN {
		col = "tags_en"
	}
	rows, err := s.db.Query(`SELECT `+col+` FROM articles
		WHERE is_published = 1 AND type = ? AND `+col+` <> ''`, string(typ))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		out = append(out, tags)
	}
	return out, rows.Err()
}

// RecentExcept returns the newest published articles of typ, skipping
// excludeID.
func (s *Store) RecentExcept(typ ArticleType, excludeID int64, limit int) ([]Article, error) {
	return s.queryArticles(`SELECT `+articleColumns+` FROM articles
		WHERE id <> ? AND is_published = 1 AND type = ?
		ORDER BY publish_date DESC LIMIT ?`, excludeID, string(typ), limit)
}

// RecentExceptIDs is RecentExcept with a set of IDs to skip, used when
// padding a partially filled related-articles block.
func (s *Store) RecentExceptIDs(typ ArticleType, excludeIDs []int64, limit int) ([]Article, error) {
	where := `is_published = 1 AND type = ?`
	args := []any{string(typ)}
	if len(excludeIDs) > 0 {
		where += ` AND id NOT IN (?` + strings.Repeat(",?", len(excludeIDs)-1) + `)`
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	args = append(args, limit)
	return s.queryArticles(`SELECT `+articleColumns+` FROM articles WHERE `+where+
		` ORDER BY publish_date DESC LIMIT ?`, args...)
}

// PopularExcept returns published articles of typ ordered by view count then
// publish date, skipping excludeID.
func (s *Store) PopularExcept(typ ArticleType, excludeID int64, limit int) ([]Article, error) {
	return s.queryArticles(`SELECT `+articleColumns+` FROM articles
		WHERE id <> ? AND is_published = 1 AND type = ?
		ORDER BY view_count DESC, publish_date DESC LIMIT ?`, excludeID, string(typ), limit)
}

// TagMatchedExcept returns published articles of typ whose tags field
// contains any of the given tags as a substring, newest first, skipping
// excludeID. Substring containment, not set equality, is deliberate: it is
// what the published site has always matched on.
func (s *Store) TagMatchedExcept(typ ArticleType, excludeID int64, tags []string, limit int) ([]Article, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	conds := make([]string, len(tags))
	args := []any{excludeID, string(typ)}
	for i, t := range tags {
		conds[i] = `instr(tags, ?) > 0`
		args = append(args, t)
	}
	args = append(args, limit)
	return s.queryArticles(`SELECT `+articleColumns+` FROM articles
		WHERE id <> ? AND is_published = 1 AND type = ? AND (`+strings.Join(conds, " OR ")+`)
		ORDER BY publish_date DESC LIMIT ?`, args...)
}

// GetSetting retrieves a settings value by key. Returns empty string if absent.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting stores a settings value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// AllSettings returns the full settings table as a map.
func (s *Store) AllSettings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
