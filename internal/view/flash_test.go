package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/testutils"
	"github.com/nfrund/learnova/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlashServer sets flashes on POST /notify and reads them on GET /.
func newFlashServer(read *view.FlashData) *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testutils.TestSessionSecret))))
	e.POST("/notify", func(c echo.Context) error {
		view.SetFlashSuccess(c, "You have been logged out.")
		view.SetFlashError(c, "Something went wrong. Please try again.")
		return c.Redirect(http.StatusSeeOther, "/")
	})
	e.GET("/", func(c echo.Context) error {
		*read = view.GetFlashData(c)
		return c.NoContent(http.StatusOK)
	})
	return e
}

// latest keeps the last Set-Cookie per name, as a browser would.
func latest(cookies []*http.Cookie) []*http.Cookie {
	byName := map[string]int{}
	var out []*http.Cookie
	for _, c := range cookies {
		if i, ok := byName[c.Name]; ok {
			out[i] = c
			continue
		}
		byName[c.Name] = len(out)
		out = append(out, c)
	}
	return out
}

func replay(e *echo.Echo, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFlash_SurvivesRedirectOnce(t *testing.T) {
	var read view.FlashData
	e := newFlashServer(&read)

	rec := replay(e, http.MethodPost, "/notify", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := latest(rec.Result().Cookies())
	require.NotEmpty(t, cookies)

	rec = replay(e, http.MethodGet, "/", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"You have been logged out."}, read.Success)
	assert.Equal(t, []string{"Something went wrong. Please try again."}, read.Error)
	assert.False(t, read.Empty())

	// Reading clears the flashes, and the cleared session is written back.
	cleared := latest(rec.Result().Cookies())
	require.NotEmpty(t, cleared)
	replay(e, http.MethodGet, "/", cleared)
	assert.True(t, read.Empty())
}

func TestFlash_NoneSet(t *testing.T) {
	var read view.FlashData
	e := newFlashServer(&read)

	rec := replay(e, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, read.Empty())
	assert.Empty(t, rec.Result().Cookies(), "nothing to clear, nothing written")
}
