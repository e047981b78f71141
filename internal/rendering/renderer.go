// Package rendering writes views to echo responses.
//
// Full pages are templ components (the base layout) while htmx answers are
// gomponents fragments; the renderer accepts both so handlers never need to
// care which kind they hold.
package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"
)

// Renderer renders templ components and gomponents nodes.
type Renderer interface {
	echo.Renderer

	// RenderComponent renders a component to bytes.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes a complete response with the given status.
	RenderPage(c echo.Context, status int, component any) error

	// RenderFragments writes several nodes into one htmx response, e.g. the
	// auth panel followed by an out-of-band nav update.
	RenderFragments(c echo.Context, status int, nodes ...g.Node) error
}

// UniversalRenderer is the Renderer used by the site. It also satisfies
// echo.Renderer so c.Render works with a component passed as data.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

func (r *UniversalRenderer) render(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case g.Node:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type %T", component)
	}
}

// RenderComponent implements Renderer.
func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements Renderer. The component is rendered into a buffer
// first so a failure still produces a clean 500.
func (r *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := r.RenderComponent(c.Request().Context(), component)
	if err != nil {
		return err
	}
	return c.HTMLBlob(status, body)
}

// RenderFragments implements Renderer.
func (r *UniversalRenderer) RenderFragments(c echo.Context, status int, nodes ...g.Node) error {
	return r.RenderPage(c, status, g.Group(nodes))
}

// Render implements echo.Renderer. The name is ignored.
func (r *UniversalRenderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return r.render(c.Request().Context(), data, w)
}

// NoContent answers an htmx request that should leave the page untouched.
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
