package kargopress

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	languageSessionName = "site_lang"
	languageSessionKey  = "lang"
	languageContextKey  = "kargopress.lang"
)

// languageMiddleware resolves the visitor's language from the session once
// per request and threads it through the echo context, so handlers and
// templates never reach into global state for it.
func languageMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lang := LangTR
		if sess, err := session.Get(languageSessionName, c); err == nil {
			if v, ok := sess.Values[languageSessionKey].(string); ok {
				lang = ParseLang(v)
			}
		}
		c.Set(languageContextKey, lang)
		return next(c)
	}
}

// CurrentLanguage returns the language resolved for this request, defaulting
// to Turkish.
func CurrentLanguage(c echo.Context) Lang {
	if lang, ok := c.Get(languageContextKey).(Lang); ok {
		return lang
	}
	return LangTR
}

// setLanguage persists the visitor's language choice in their session and
// updates the current request's context value.
func setLanguage(c echo.Context, lang Lang) error {
	sess, err := session.Get(languageSessionName, c)
	if err != nil {
		return err
	}
	sess.Values[languageSessionKey] = string(lang)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	c.Set(languageContextKey, lang)
	return nil
}
