// Package dto holds the view models passed from handlers to templates.
package dto

import (
	"time"

	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/landing"
)

// FAQItem is one accordion row with its expanded state resolved.
type FAQItem struct {
	Index    int
	Question string
	Answer   string
	Open     bool
}

// Nav is the top bar. It is re-rendered out of band after login or logout.
type Nav struct {
	Logo     string
	Links    []landing.Link
	SignedIn bool
	UserName string
}

// FAQ is the accordion section.
type FAQ struct {
	Title   string
	Items   []FAQItem
	AllOpen bool
}

// Carousel is the slide strip in the auth modal.
type Carousel struct {
	Slides   []landing.Slide
	Index    int
	Interval time.Duration
}

// Panel is the form side of the auth modal.
type Panel struct {
	Heading   string
	Snapshot  authflow.Snapshot
	Notice    *authflow.Notice
	Delay     time.Duration
	Close     bool
	GoogleURL string
}

// Modal is the whole auth modal.
type Modal struct {
	Carousel Carousel
	Panel    Panel
}

// Subscribe is the footer newsletter form.
type Subscribe struct {
	Email   string
	Error   string
	Message string
}

// Home is the landing page.
type Home struct {
	Content   *landing.Content
	Nav       Nav
	FAQ       FAQ
	Subscribe Subscribe
	// Modal is set when the page is loaded while the modal is open.
	Modal *Modal
}
