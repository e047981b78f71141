package components

import (
	"github.com/nfrund/learnova/internal/view/dto"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// SiteNav is the fixed top bar. With oob set it replaces the bar already on
// the page, which is how login and logout update it from a modal response.
func SiteNav(data dto.Nav, oob bool) g.Node {
	links := make([]g.Node, 0, len(data.Links))
	for _, l := range data.Links {
		links = append(links, A(Href(l.Href), Class("site-nav__link"), g.Text(l.Label)))
	}

	return Nav(
		ID("site-nav"),
		Class("site-nav"),
		g.If(oob, hx.SwapOOB("true")),
		A(Href("#Home"), Class("site-nav__brand"),
			Img(Src(data.Logo), Alt("Learnova Logo"), Class("site-nav__logo")),
		),
		Div(Class("site-nav__links"), g.Group(links)),
		Div(Class("site-nav__actions"), navActions(data)),
	)
}

func navActions(data dto.Nav) g.Node {
	if data.SignedIn {
		greeting := "Dashboard"
		if data.UserName != "" {
			greeting = "Hi, " + data.UserName
		}
		return g.Group{
			Span(Class("site-nav__user"), g.Text(greeting)),
			Button(
				Type("button"),
				Class("btn btn--outline"),
				hx.Post("/auth/logout"),
				g.Text("Log out"),
			),
		}
	}
	return Button(
		Type("button"),
		Class("btn btn--pill"),
		hx.Get("/auth/modal"),
		hx.Target("#auth-modal-root"),
		hx.Swap("innerHTML"),
		Span(Class("btn__label"), g.Text("Get Started")),
		Icon("arrow-right", "btn__icon"),
	)
}
