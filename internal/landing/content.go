// Package landing holds the landing page content and the small pieces of
// presentational state (FAQ accordion, modal carousel) the page keeps per
// visitor.
package landing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrContentInvalid is returned when a content file fails validation.
var ErrContentInvalid = errors.New("invalid landing content")

// Link is a labelled href.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Hero is the top section of the page.
type Hero struct {
	Headline      []string `yaml:"headline"`
	Tagline       string   `yaml:"tagline"`
	PrimaryCTA    string   `yaml:"primary_cta"`
	SecondaryCTA  string   `yaml:"secondary_cta"`
	SecondaryHref string   `yaml:"secondary_href"`
	Image         string   `yaml:"image"`
}

// Feature is one card of the features grid. Icon names a built-in icon.
type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// FAQ is one accordion entry.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Slide is one image of the auth modal carousel.
type Slide struct {
	Image string `yaml:"image"`
	Alt   string `yaml:"alt"`
}

// FooterColumn is a titled list of links.
type FooterColumn struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

// Footer is the page footer.
type Footer struct {
	Brand       string         `yaml:"brand"`
	Blurb       string         `yaml:"blurb"`
	Social      []Link         `yaml:"social"`
	Columns     []FooterColumn `yaml:"columns"`
	Subscribe   string         `yaml:"subscribe"`
	Copyright   string         `yaml:"copyright"`
	BottomLinks []Link         `yaml:"bottom_links"`
}

// Content is everything the landing page renders that is not visitor state.
type Content struct {
	Title         string    `yaml:"title"`
	Logo          string    `yaml:"logo"`
	Nav           []Link    `yaml:"nav"`
	Hero          Hero      `yaml:"hero"`
	FeaturesTitle string    `yaml:"features_title"`
	FeaturesIntro string    `yaml:"features_intro"`
	Features      []Feature `yaml:"features"`
	FAQTitle      string    `yaml:"faq_title"`
	FAQs          []FAQ     `yaml:"faqs"`
	Slides        []Slide   `yaml:"slides"`
	Footer        Footer    `yaml:"footer"`
	ModalHeading  string    `yaml:"modal_heading"`
	ContactAnchor string    `yaml:"contact_anchor"`
}

// Validate checks the fields the page cannot render without.
func (c *Content) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Title) == "" {
		problems = append(problems, "title is empty")
	}
	if len(c.Hero.Headline) == 0 {
		problems = append(problems, "hero.headline is empty")
	}
	if len(c.Slides) == 0 {
		problems = append(problems, "at least one slide is required")
	}
	for i, s := range c.Slides {
		if strings.TrimSpace(s.Image) == "" {
			problems = append(problems, fmt.Sprintf("slides[%d].image is empty", i))
		}
	}
	for i, f := range c.Features {
		if strings.TrimSpace(f.Title) == "" {
			problems = append(problems, fmt.Sprintf("features[%d].title is empty", i))
		}
	}
	for i, q := range c.FAQs {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			problems = append(problems, fmt.Sprintf("faqs[%d] needs a question and an answer", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrContentInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Default returns the built-in page content.
func Default() *Content {
	return &Content{
		Title: "LearnOva",
		Logo:  "/static/img/learnova-logo.svg",
		Nav: []Link{
			{Label: "Home", Href: "#Home"},
			{Label: "Features", Href: "#Features"},
			{Label: "FAQs", Href: "#Faqs"},
			{Label: "Contact Us", Href: "#Contact"},
		},
		Hero: Hero{
			Headline:      []string{"Empower Learning.", "Anytime, Anywhere."},
			Tagline:       "Join a seamless, interactive digital classroom experience designed for the future of education. Connect, collaborate, and learn with cutting-edge tools.",
			PrimaryCTA:    "Start Learning",
			SecondaryCTA:  "Know more",
			SecondaryHref: "#Features",
			Image:         "/static/img/hero.svg",
		},
		FeaturesTitle: "Why learnOva?",
		FeaturesIntro: "Experience a comprehensive digital classroom with all the tools you need for effective learning and teaching.",
		Features: []Feature{
			{Icon: "play", Title: "HD Video Classes", Description: "Crystal-clear video conferencing with advanced features like screen sharing, breakout rooms, and interactive whiteboards."},
			{Icon: "file-text", Title: "Smart Assignments", Description: "AI-powered assignment creation, automatic grading, and detailed analytics to track student progress and performance."},
			{Icon: "cloud", Title: "Cloud Library", Description: "Unlimited cloud storage for resources, documents, and multimedia content with intelligent organization and search."},
			{Icon: "message-circle", Title: "Real-time Chat", Description: "Instant messaging, group discussions, and announcement system to keep everyone connected and informed."},
			{Icon: "bar-chart", Title: "Analytics Dashboard", Description: "Comprehensive insights into learning progress, engagement metrics, and personalized recommendations for improvement."},
			{Icon: "smartphone", Title: "Mobile Ready", Description: "Seamless experience across all devices with native mobile apps and responsive web design for learning on-the-go."},
		},
		FAQTitle: "Frequently Asked Questions",
		FAQs: []FAQ{
			{Question: "What is learnova?", Answer: "Learnova is your intelligent learning companion that helps you learn effectively with AI tools, communities, and resources."},
			{Question: "Is it paid or free?", Answer: "Learnova offers both free and paid plans to suit different learning needs."},
			{Question: "Is my data secure when I use learnova?", Answer: "Yes, your data is encrypted and handled according to industry-standard privacy practices."},
			{Question: "What is community?", Answer: "Community is a place where learners can share resources, discuss ideas, and collaborate."},
			{Question: "Is AI assistant free or paid?", Answer: "Basic AI assistant features are free; advanced tools require a paid subscription."},
		},
		Slides: []Slide{
			{Image: "/static/img/auth-1.svg", Alt: "Slide 1"},
			{Image: "/static/img/auth-2.svg", Alt: "Slide 2"},
			{Image: "/static/img/auth-3.svg", Alt: "Slide 3"},
		},
		Footer: Footer{
			Brand: "LearnOva",
			Blurb: "Empowering education through technology since 2025.",
			Social: []Link{
				{Label: "Twitter", Href: "#"},
				{Label: "Facebook", Href: "#"},
				{Label: "Instagram", Href: "#"},
				{Label: "YouTube", Href: "#"},
			},
			Columns: []FooterColumn{
				{Title: "Product", Links: []Link{
					{Label: "Features", Href: "#Features"},
					{Label: "Pricing", Href: "#"},
					{Label: "For Teachers", Href: "#"},
					{Label: "For Students", Href: "#"},
					{Label: "For Schools", Href: "#"},
				}},
				{Title: "Support", Links: []Link{
					{Label: "Help Center", Href: "#"},
					{Label: "Contact Us", Href: "#Contact"},
					{Label: "Community", Href: "#"},
					{Label: "Tutorials", Href: "#"},
					{Label: "Webinars", Href: "#"},
				}},
			},
			Subscribe: "Get the latest updates and news.",
			Copyright: "© 2025 LearnOva. All rights reserved.",
			BottomLinks: []Link{
				{Label: "Terms", Href: "#"},
				{Label: "Privacy", Href: "#"},
				{Label: "Cookies", Href: "#"},
			},
		},
		ModalHeading:  "Student login",
		ContactAnchor: "Contact",
	}
}
