package kargopress

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminArticleNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminArticleForm(AdminFormView{
		Article:   Article{Type: a.Config.DefaultType},
		IsNew:     true,
		CSRFToken: CsrfToken(c),
	}))
}

func (a *App) handleAdminArticleCreate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	in, img, _, err := a.bindArticleForm(c)
	if err != nil {
		return err
	}

	_, err = a.Articles.Create(in, img)
	if err != nil {
		if fields := validationErrors(err); fields != nil {
			draft := Article{Type: a.Config.DefaultType}
			applyInputToForm(&draft, in)
			return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.AdminArticleForm(AdminFormView{
				Article:   draft,
				IsNew:     true,
				Errors:    fields,
				CSRFToken: CsrfToken(c),
			}))
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=created")
}

func (a *App) handleAdminArticleEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	art, err := a.Articles.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminArticleForm(AdminFormView{
		Article:   art,
		CSRFToken: CsrfToken(c),
	}))
}

func (a *App) handleAdminArticleUpdate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	in, img, removeImage, err := a.bindArticleForm(c)
	if err != nil {
		return err
	}

	_, err = a.Articles.Update(id, in, img, removeImage)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		if fields := validationErrors(err); fields != nil {
			draft := Article{ID: id}
			applyInputToForm(&draft, in)
			return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.AdminArticleForm(AdminFormView{
				Article:   draft,
				Errors:    fields,
				CSRFToken: CsrfToken(c),
			}))
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
}

func (a *App) handleAdminArticleDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	if err := a.Articles.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) handleAdminSettings(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ss, err := LoadSiteSettings(a.Store)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminSettings(AdminSettingsView{
		Settings:  ss,
		Message:   c.QueryParam("msg"),
		CSRFToken: CsrfToken(c),
	}))
}

func (a *App) handleAdminSettingsSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ss := SiteSettings{
		SiteTitle:      c.FormValue("site_title"),
		ContactEmail:   c.FormValue("contact_email"),
		ContactPhone:   c.FormValue("contact_phone"),
		ContactAddress: c.FormValue("contact_address"),
		FacebookURL:    c.FormValue("facebook_url"),
		InstagramURL:   c.FormValue("instagram_url"),
		LinkedInURL:    c.FormValue("linkedin_url"),
		TwitterURL:     c.FormValue("twitter_url"),
	}
	if err := ss.Save(a.Store); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/settings/?msg=saved")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	articles, err := a.Articles.ListAll()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(AdminDashboardView{
		Articles:  articles,
		Message:   msg,
		CSRFToken: CsrfToken(c),
	}))
}

// bindArticleForm reads the multipart article form into an ArticleInput plus
// the optional uploaded image. The file handle stays open only for the
// duration of the request.
func (a *App) bindArticleForm(c echo.Context) (ArticleInput, *ImageUpload, bool, error) {
	in := ArticleInput{
		Title:             c.FormValue("title"),
		Content:           c.FormValue("content"),
		TitleEn:           c.FormValue("title_en"),
		ContentEn:         c.FormValue("content_en"),
		MetaDescription:   c.FormValue("meta_description"),
		MetaDescriptionEn: c.FormValue("meta_description_en"),
		Tags:              c.FormValue("tags"),
		TagsEn:            c.FormValue("tags_en"),
		Published:         c.FormValue("published") != "",
		AuthorID:          a.Config.AdminUser,
	}
	if typ, err := ParseArticleType(c.FormValue("type")); err == nil {
		in.Type = typ
	}
	removeImage := c.FormValue("remove_image") != ""

	fh, err := c.FormFile("image")
	if err != nil {
		// No file part means no new image; anything else is a bad request.
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return in, nil, removeImage, nil
		}
		return in, nil, removeImage, echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}
	if fh.Size == 0 {
		return in, nil, removeImage, nil
	}
	if !ValidFileSize(fh.Size, maxUploadSize) {
		return in, nil, removeImage, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
	}
	f, err := fh.Open()
	if err != nil {
		return in, nil, removeImage, err
	}
	c.Response().After(func() { f.Close() })
	return in, &ImageUpload{Name: fh.Filename, Reader: f}, removeImage, nil
}

// validationErrors flattens an ozzo validation error into a field-to-message
// map for form re-rendering. Non-validation errors return nil.
func validationErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		fields[field] = ferr.Error()
	}
	return fields
}

// applyInputToForm copies submitted values back onto an Article so a failed
// form re-renders with what the admin typed.
func applyInputToForm(art *Article, in ArticleInput) {
	art.Title = in.Title
	art.Content = in.Content
	art.TitleEn = in.TitleEn
	art.ContentEn = in.ContentEn
	art.MetaDescription = in.MetaDescription
	art.MetaDescriptionEn = in.MetaDescriptionEn
	art.Tags = in.Tags
	art.TagsEn = in.TagsEn
	art.Published = in.Published
	if in.Type.Valid() {
		art.Type = in.Type
	}
}
