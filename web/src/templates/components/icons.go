package components

import (
	"fmt"

	g "maragu.dev/gomponents"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" class="%s" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">`

var iconPaths = map[string]string{
	"play":           `<polygon points="6 3 20 12 6 21 6 3"/>`,
	"file-text":      `<path d="M15 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V7Z"/><path d="M14 2v4a2 2 0 0 0 2 2h4"/><path d="M10 9H8"/><path d="M16 13H8"/><path d="M16 17H8"/>`,
	"cloud":          `<path d="M17.5 19H9a7 7 0 1 1 6.71-9h1.79a4.5 4.5 0 1 1 0 9Z"/>`,
	"message-circle": `<path d="M7.9 20A9 9 0 1 0 4 16.1L2 22Z"/>`,
	"bar-chart":      `<path d="M3 3v16a2 2 0 0 0 2 2h16"/><path d="M18 17V9"/><path d="M13 17V5"/><path d="M8 17v-3"/>`,
	"smartphone":     `<rect width="14" height="20" x="5" y="2" rx="2" ry="2"/><path d="M12 18h.01"/>`,
	"plus":           `<path d="M5 12h14"/><path d="M12 5v14"/>`,
	"minus":          `<path d="M5 12h14"/>`,
	"arrow-right":    `<path d="M5 12h14"/><path d="m12 5 7 7-7 7"/>`,
	"x":              `<path d="M18 6 6 18"/><path d="m6 6 12 12"/>`,
	"send":           `<path d="m22 2-7 20-4-9-9-4Z"/><path d="M22 2 11 13"/>`,
}

// Icon renders a built-in line icon. Unknown names render nothing.
func Icon(name, class string) g.Node {
	path, ok := iconPaths[name]
	if !ok {
		return g.Group(nil)
	}
	return g.Raw(fmt.Sprintf(svgOpen, class) + path + `</svg>`)
}
