package components

import (
	"fmt"

	"github.com/nfrund/learnova/internal/landing"
	"github.com/nfrund/learnova/internal/view/dto"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Hero is the first screen of the landing page.
func Hero(hero landing.Hero) g.Node {
	lines := make([]g.Node, 0, len(hero.Headline))
	for _, line := range hero.Headline {
		lines = append(lines, H2(Class("hero__headline"), g.Text(line)))
	}

	return Section(
		ID("Home"),
		Class("hero"),
		Div(Class("hero__copy"),
			g.Group(lines),
			P(Class("hero__tagline"), g.Text(hero.Tagline)),
			Div(Class("hero__actions"),
				Button(
					Type("button"),
					Class("btn btn--dark"),
					hx.Get("/auth/modal"),
					hx.Target("#auth-modal-root"),
					hx.Swap("innerHTML"),
					g.Text(hero.PrimaryCTA),
				),
				A(Href(hero.SecondaryHref), Class("btn btn--outline"), g.Text(hero.SecondaryCTA)),
			),
		),
		Img(Src(hero.Image), Alt("Hero Image"), Class("hero__image")),
	)
}

// FeatureGrid lists the product features.
func FeatureGrid(title, intro string, features []landing.Feature) g.Node {
	cards := make([]g.Node, 0, len(features))
	for _, f := range features {
		cards = append(cards, Div(
			Class("feature"),
			Div(Class("feature__icon"), Icon(f.Icon, "icon")),
			H3(Class("feature__title"), g.Text(f.Title)),
			P(Class("feature__text"), g.Text(f.Description)),
		))
	}

	return Section(
		ID("Features"),
		Class("features"),
		Div(Class("features__header"),
			H1(Class("features__title"), g.Text(title)),
			P(Class("features__intro"), g.Text(intro)),
		),
		Div(Class("features__grid"), g.Group(cards)),
	)
}

// FAQSection is the accordion. Every toggle re-renders the whole section.
func FAQSection(data dto.FAQ) g.Node {
	toggleLabel := "Expand all"
	if data.AllOpen {
		toggleLabel = "Collapse all"
	}

	items := make([]g.Node, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, faqItem(item))
	}

	return Section(
		ID("Faqs"),
		Class("faq"),
		Div(Class("faq__heading"), H2(g.Text(data.Title))),
		Div(Class("faq__body"),
			Div(Class("faq__toolbar"),
				Button(
					Type("button"),
					Class("link-button"),
					hx.Post("/faq/toggle-all"),
					hx.Target("#Faqs"),
					hx.Swap("outerHTML"),
					g.Text(toggleLabel),
				),
			),
			Div(Class("faq__list"), g.Group(items)),
		),
	)
}

func faqItem(item dto.FAQItem) g.Node {
	icon, state := "plus", "closed"
	if item.Open {
		icon, state = "minus", "open"
	}
	answerID := fmt.Sprintf("faq-answer-%d", item.Index)

	return Div(
		Class("faq__item faq__item--"+state),
		Button(
			Type("button"),
			Class("faq__question"),
			Aria("expanded", fmt.Sprint(item.Open)),
			Aria("controls", answerID),
			hx.Post(fmt.Sprintf("/faq/toggle/%d", item.Index)),
			hx.Target("#Faqs"),
			hx.Swap("outerHTML"),
			Span(g.Text(item.Question)),
			Icon(icon, "faq__icon"),
		),
		Div(
			ID(answerID),
			Class("faq__answer"),
			P(g.Text(item.Answer)),
		),
	)
}

// SiteFooter is the page footer with the newsletter form.
func SiteFooter(footer landing.Footer, subscribe dto.Subscribe) g.Node {
	social := make([]g.Node, 0, len(footer.Social))
	for _, l := range footer.Social {
		social = append(social, A(Href(l.Href), Class("footer__social"), Aria("label", l.Label), g.Text(l.Label)))
	}

	columns := make([]g.Node, 0, len(footer.Columns))
	for _, col := range footer.Columns {
		links := make([]g.Node, 0, len(col.Links))
		for _, l := range col.Links {
			links = append(links, Li(A(Href(l.Href), g.Text(l.Label))))
		}
		columns = append(columns, Div(
			Class("footer__column"),
			H2(Class("footer__title"), g.Text(col.Title)),
			Ul(g.Group(links)),
		))
	}

	bottom := make([]g.Node, 0, len(footer.BottomLinks))
	for _, l := range footer.BottomLinks {
		bottom = append(bottom, A(Href(l.Href), g.Text(l.Label)))
	}

	return Footer(
		ID("Contact"),
		Class("footer"),
		Div(Class("footer__grid"),
			Div(Class("footer__column"),
				H2(Class("footer__title"), g.Text(footer.Brand)),
				P(g.Text(footer.Blurb)),
				Div(Class("footer__socials"), g.Group(social)),
			),
			g.Group(columns),
			Div(Class("footer__column"),
				H2(Class("footer__title"), g.Text("Subscribe")),
				P(g.Text(footer.Subscribe)),
				SubscribeForm(subscribe),
			),
		),
		Div(Class("footer__bottom"),
			P(g.Text(footer.Copyright)),
			Div(Class("footer__legal"), g.Group(bottom)),
		),
	)
}

// SubscribeForm is the newsletter email capture. It swaps itself with the
// result.
func SubscribeForm(data dto.Subscribe) g.Node {
	return Form(
		ID("subscribe-form"),
		Class("subscribe"),
		Method("post"),
		Action("/subscribe"),
		hx.Post("/subscribe"),
		hx.Target("this"),
		hx.Swap("outerHTML"),
		Div(Class("subscribe__row"),
			Input(
				Type("email"),
				Name("email"),
				Placeholder("Your email"),
				Value(data.Email),
				AutoComplete("email"),
				Class("subscribe__input"),
			),
			Button(Type("submit"), Class("subscribe__button"), Aria("label", "Subscribe"), Icon("send", "icon")),
		),
		g.If(data.Error != "", P(Class("field-error"), g.Text(data.Error))),
		g.If(data.Message != "", P(Class("subscribe__message"), g.Text(data.Message))),
	)
}
