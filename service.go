package kargopress

import (
	"fmt"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ImageStore is the slice of the file-storage collaborator the article
// service needs: persisting a new upload and removing a replaced one.
type ImageStore interface {
	Save(category, originalName string, r io.Reader) (string, error)
	Remove(path string) error
}

// imageCategory is the uploads subdirectory for article images.
const imageCategory = "articles"

// ImageUpload carries a pending image file from the HTTP layer into the
// service.
type ImageUpload struct {
	Name   string
	Reader io.Reader
}

// ArticleInput is the full set of mutable article fields as submitted by the
// admin forms. Create and Update both take the complete input; edits replace
// every field rather than patching.
type ArticleInput struct {
	Title             string
	Content           string
	TitleEn           string
	ContentEn         string
	MetaDescription   string
	MetaDescriptionEn string
	Tags              string
	TagsEn            string
	Published         bool
	Type              ArticleType
	AuthorID          string
}

// Validate checks required fields and bounded lengths before anything
// touches storage.
func (in ArticleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.AuthorID, validation.Required),
		validation.Field(&in.MetaDescription, validation.Length(0, 160)),
		validation.Field(&in.MetaDescriptionEn, validation.Length(0, 160)),
		validation.Field(&in.Type, validation.By(func(any) error {
			if in.Type != "" && !in.Type.Valid() {
				return validation.NewError("validation_article_type", "must be a known article type")
			}
			return nil
		})),
	)
}

// ArticleService composes the store, the slug generator, and the image store
// into the operations the HTTP layer calls.
type ArticleService struct {
	store       *Store
	images      ImageStore
	defaultType ArticleType
}

// NewArticleService wires an ArticleService. defaultType is applied when a
// create request does not carry a type.
func NewArticleService(store *Store, images ImageStore, defaultType ArticleType) *ArticleService {
	if !defaultType.Valid() {
		defaultType = TypeUsefulInfo
	}
	return &ArticleService{store: store, images: images, defaultType: defaultType}
}

func (svc *ArticleService) apply(a *Article, in ArticleInput) {
	a.Title = in.Title
	a.Content = in.Content
	a.TitleEn = in.TitleEn
	a.ContentEn = in.ContentEn
	a.MetaDescription = in.MetaDescription
	a.MetaDescriptionEn = in.MetaDescriptionEn
	a.Tags = in.Tags
	a.TagsEn = in.TagsEn
	a.Published = in.Published
	a.AuthorID = in.AuthorID
	if in.Type.Valid() {
		a.Type = in.Type
	}
	// Slugs always track the current titles. The English slug exists only
	// when there is an English title to derive it from.
	a.Slug = GenerateSlug(in.Title)
	a.SlugEn = ""
	if in.TitleEn != "" {
		a.SlugEn = GenerateSlug(in.TitleEn)
	}
}

// Create validates the input, stores the optional image, and inserts the
// article with both timestamps set to now and a zero view count. If the
// database insert fails after the image was written, the image is removed
// again so no orphan file remains.
func (svc *ArticleService) Create(in ArticleInput, img *ImageUpload) (Article, error) {
	if err := in.Validate(); err != nil {
		return Article{}, err
	}

	var a Article
	a.Type = svc.defaultType
	svc.apply(&a, in)
	now := time.Now().UTC()
	a.PublishDate = now
	a.UpdateDate = now
	a.ViewCount = 0

	if img != nil {
		path, err := svc.images.Save(imageCategory, img.Name, img.Reader)
		if err != nil {
			return Article{}, err
		}
		a.ImageURL = path
	}

	if err := svc.store.CreateArticle(&a); err != nil {
		if a.ImageURL != "" {
			_ = svc.images.Remove(a.ImageURL)
		}
		return Article{}, fmt.Errorf("kargopress: create article: %w", err)
	}
	return a, nil
}

// Update replaces every mutable field of an existing article, recomputes the
// slugs, and refreshes the update timestamp. Image replacement is two-phase:
// the new file is written first, the record is updated, and only after the
// record write succeeds is the old file deleted. A failed record write rolls
// the new file back, so the stored row never points at a missing image.
func (svc *ArticleService) Update(id int64, in ArticleInput, img *ImageUpload, removeImage bool) (Article, error) {
	if err := in.Validate(); err != nil {
		return Article{}, err
	}

	a, err := svc.store.GetArticle(id)
	if err != nil {
		return Article{}, err
	}

	oldImage := a.ImageURL
	svc.apply(&a, in)
	a.UpdateDate = time.Now().UTC()

	switch {
	case img != nil:
		path, err := svc.images.Save(imageCategory, img.Name, img.Reader)
		if err != nil {
			return Article{}, err
		}
		a.ImageURL = path
	case removeImage:
		a.ImageURL = ""
	}

	if err := svc.store.UpdateArticle(&a); err != nil {
		if img != nil {
			_ = svc.images.Remove(a.ImageURL)
		}
		return Article{}, fmt.Errorf("kargopress: update article %d: %w", id, err)
	}

	if oldImage != "" && oldImage != a.ImageURL {
		// Best effort; a leftover file is harmless, a dangling reference is not.
		_ = svc.images.Remove(oldImage)
	}
	return a, nil
}

// Delete removes the article record, then its image file. The record goes
// first so a failed file delete can only orphan a file, never leave a live
// row pointing at nothing.
func (svc *ArticleService) Delete(id int64) error {
	a, err := svc.store.GetArticle(id)
	if err != nil {
		return err
	}
	if err := svc.store.DeleteArticle(id); err != nil {
		return fmt.Errorf("kargopress: delete article %d: %w", id, err)
	}
	if a.ImageURL != "" {
		_ = svc.images.Remove(a.ImageURL)
	}
	return nil
}

// GetByID returns an article in any state, for the admin screens.
func (svc *ArticleService) GetByID(id int64) (Article, error) {
	return svc.store.GetArticle(id)
}

// GetBySlug returns a published article of the given type by primary or
// English slug.
func (svc *ArticleService) GetBySlug(slug string, typ ArticleType) (Article, error) {
	return svc.store.GetPublishedBySlug(slug, typ)
}

// ListAll returns every article for the admin dashboard, drafts included.
func (svc *ArticleService) ListAll() ([]Article, error) {
	return svc.store.ListAllArticles()
}

// ListPublished returns one page of the public listing for typ.
func (svc *ArticleService) ListPublished(typ ArticleType, page, pageSize int) (ArticlePage, error) {
	return svc.store.ListPublished(typ, page, pageSize)
}

// Search returns one page of published articles of typ matching query. An
// empty query is the plain listing, not an error.
func (svc *ArticleService) Search(typ ArticleType, query string, page, pageSize int) (ArticlePage, error) {
	return svc.store.SearchPublished(typ, query, page, pageSize)
}

// ListByTag returns one page of published articles of typ whose tag fields
// contain tag.
func (svc *ArticleService) ListByTag(typ ArticleType, tag string, page, pageSize int) (ArticlePage, error) {
	return svc.store.ListPublishedByTag(typ, tag, page, pageSize)
}

// IncrementViewAndGet resolves a published article of typ by id (when id > 0)
// or by slug, bumps its view counter by one, and returns the updated row.
// A miss (bad reference, wrong type, or unpublished) is ErrNotFound and
// leaves every counter untouched.
func (svc *ArticleService) IncrementViewAndGet(id int64, slug string, typ ArticleType) (Article, error) {
	var (
		a   Article
		err error
	)
	if id > 0 {
		a, err = svc.store.GetPublished(id, typ)
	} else {
		a, err = svc.store.GetPublishedBySlug(slug, typ)
	}
	if err != nil {
		return Article{}, err
	}
	if err := svc.store.IncrementView(a.ID); err != nil {
		return Article{}, fmt.Errorf("kargopress: increment view for article %d: %w", a.ID, err)
	}
	a.ViewCount++
	return a, nil
}
