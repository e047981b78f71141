package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/learnova/internal/view"
	"github.com/nfrund/learnova/web/src/templates/components"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	// HTMXSource is the htmx build the pages load.
	HTMXSource = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"
	brand      = "LearnOva"
)

// documentTitle puts the brand after the page title, or alone without one.
func documentTitle(title string) string {
	if title == "" {
		return brand
	}
	return title + " | " + brand
}

// Base is the HTML document shell shared by every page.
func Base(title string, flashes view.FlashData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc := h.Doctype(
			h.HTML(
				h.Lang("en"),
				h.Head(
					h.Meta(h.Charset("utf-8")),
					h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
					h.TitleEl(g.Text(documentTitle(title))),
					h.Link(h.Rel("icon"), h.Href("/static/img/favicon.svg")),
					h.Link(h.Rel("stylesheet"), h.Href("/static/css/site.css")),
					h.Script(h.Src(HTMXSource), h.Defer()),
				),
				h.Body(
					h.Class("page"),
					components.FlashToasts(flashes),
					view.AdaptTemplToGomponent(ctx, body),
				),
			),
		)
		return doc.Render(w)
	})
}
