package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/view"
	"github.com/nfrund/learnova/internal/view/dto"
	"github.com/nfrund/learnova/web/src/templates/layouts"
	"github.com/nfrund/learnova/web/src/templates/pages"
)

// HomeHandler serves the landing page.
type HomeHandler struct {
	site *Site
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(site *Site) *HomeHandler {
	return &HomeHandler{site: site}
}

// HomeGet handles GET /. A visitor who reloads with the modal open gets it
// back at the step they were on.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	v, err := currentVisitor(c)
	if err != nil {
		return err
	}
	content := h.site.Content.Content()

	data := dto.Home{
		Content: content,
		Nav:     navData(content, v),
		FAQ:     faqData(content, v.FAQ),
	}
	if v.ModalOpen() && v.Flow.State().IsClosed() {
		// The flow finished but the browser never asked to close the modal.
		v.CloseModal()
	}
	if v.ModalOpen() {
		modal := h.site.modalData(content, v)
		data.Modal = &modal
	}

	page := layouts.Base("Home", view.GetFlashData(c), view.AdaptGomponentToTempl(pages.Home(data)))
	return h.site.Renderer.RenderPage(c, http.StatusOK, page)
}
