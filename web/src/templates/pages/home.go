package pages

import (
	"github.com/nfrund/learnova/internal/view/dto"
	"github.com/nfrund/learnova/web/src/templates/components"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Home is the landing page body.
func Home(data dto.Home) g.Node {
	c := data.Content

	var modal g.Node = g.Group(nil)
	if data.Modal != nil {
		modal = components.AuthModal(*data.Modal)
	}

	return g.Group{
		components.SiteNav(data.Nav, false),
		h.Main(
			h.Class("content"),
			components.Hero(c.Hero),
			components.FeatureGrid(c.FeaturesTitle, c.FeaturesIntro, c.Features),
			components.FAQSection(data.FAQ),
		),
		components.SiteFooter(c.Footer, data.Subscribe),
		h.Div(h.ID("auth-modal-root"), modal),
	}
}
