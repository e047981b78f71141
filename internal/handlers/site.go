package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/apiclient"
	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/landing"
	"github.com/nfrund/learnova/internal/middleware"
	"github.com/nfrund/learnova/internal/rendering"
	"github.com/nfrund/learnova/internal/view/dto"
	"github.com/nfrund/learnova/internal/visitor"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContentSource supplies the current page copy. *landing.Source satisfies it.
type ContentSource interface {
	Content() *landing.Content
}

// Site is what the landing page handlers share to build their views.
type Site struct {
	Content   ContentSource
	Renderer  rendering.Renderer
	GoogleURL string
	// Interval is how often the modal carousel advances.
	Interval time.Duration
}

func currentVisitor(c echo.Context) (*visitor.Visitor, error) {
	v, ok := middleware.CurrentVisitor(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "visitor state unavailable")
	}
	return v, nil
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func navData(content *landing.Content, v *visitor.Visitor) dto.Nav {
	return dto.Nav{
		Logo:     content.Logo,
		Links:    content.Nav,
		SignedIn: v.SignedIn(),
		UserName: displayName(v.User()),
	}
}

// displayName is the title-cased first name used in the nav greeting.
func displayName(u *apiclient.User) string {
	if u == nil {
		return ""
	}
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.English).String(fields[0])
}

func faqData(content *landing.Content, acc *landing.Accordion) dto.FAQ {
	items := make([]dto.FAQItem, len(content.FAQs))
	for i, f := range content.FAQs {
		items[i] = dto.FAQItem{
			Index:    i,
			Question: f.Question,
			Answer:   f.Answer,
			Open:     acc.IsOpen(i),
		}
	}
	return dto.FAQ{Title: content.FAQTitle, Items: items, AllOpen: acc.AllOpen()}
}

func (s *Site) carouselData(content *landing.Content, v *visitor.Visitor) dto.Carousel {
	return dto.Carousel{
		Slides:   content.Slides,
		Index:    v.Carousel.Index(),
		Interval: s.Interval,
	}
}

func (s *Site) panelData(content *landing.Content, v *visitor.Visitor, out authflow.Outcome) dto.Panel {
	return dto.Panel{
		Heading:   content.ModalHeading,
		Snapshot:  v.Flow.Snapshot(),
		Notice:    out.Notice,
		Delay:     out.Delay,
		Close:     out.Close,
		GoogleURL: s.GoogleURL,
	}
}

func (s *Site) modalData(content *landing.Content, v *visitor.Visitor) dto.Modal {
	return dto.Modal{
		Carousel: s.carouselData(content, v),
		Panel:    s.panelData(content, v, authflow.Outcome{}),
	}
}
