package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/visitor"
	"github.com/nfrund/learnova/web/src/templates/components"
)

// FAQHandler toggles the accordion. Each toggle re-renders the section.
type FAQHandler struct {
	site *Site
}

// NewFAQHandler creates a new FAQHandler.
func NewFAQHandler(site *Site) *FAQHandler {
	return &FAQHandler{site: site}
}

// TogglePost handles POST /faq/toggle/:index.
func (h *FAQHandler) TogglePost(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}

	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 || i >= len(h.site.Content.Content().FAQs) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown question")
	}
	v.FAQ.Toggle(i)
	return h.render(c, v)
}

// ToggleAllPost handles POST /faq/toggle-all.
func (h *FAQHandler) ToggleAllPost(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	v.FAQ.ToggleAll()
	return h.render(c, v)
}

func (h *FAQHandler) render(c echo.Context, v *visitor.Visitor) error {
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/#Faqs")
	}
	return h.site.Renderer.RenderPage(c, http.StatusOK, components.FAQSection(faqData(h.site.Content.Content(), v.FAQ)))
}
