package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/visitor"
)

const (
	VisitorContextKey  = "visitor"
	visitorSessionName = "learnova-visitor"
	visitorIDKey       = "id"
)

// Visitor attaches the browser's visitor state to the request. The visitor id
// lives in a signed session cookie; an unknown or missing id gets a new
// visitor and a new cookie. It must run after session.Middleware.
func Visitor(store *visitor.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(visitorSessionName, c)
			if sess == nil {
				return fmt.Errorf("failed to load visitor session: %w", err)
			}
			if err != nil {
				// A cookie signed with an old secret decodes to a fresh session.
				FromContext(c.Request().Context()).Debug("Ignoring unreadable visitor cookie", "error", err)
			}

			id, _ := sess.Values[visitorIDKey].(string)
			v, created := store.GetOrCreate(id)
			if created {
				sess.Values[visitorIDKey] = v.ID
				sess.Options = &sessions.Options{
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					return fmt.Errorf("failed to save visitor session: %w", err)
				}
			}

			c.Set(VisitorContextKey, v)
			return next(c)
		}
	}
}

// CurrentVisitor returns the visitor attached by the Visitor middleware.
func CurrentVisitor(c echo.Context) (*visitor.Visitor, bool) {
	v, ok := c.Get(VisitorContextKey).(*visitor.Visitor)
	return v, ok
}
