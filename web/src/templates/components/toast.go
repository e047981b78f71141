package components

import (
	"fmt"
	"time"

	"github.com/nfrund/learnova/internal/authflow"
	"github.com/nfrund/learnova/internal/view"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// FlashToasts renders the one-shot messages carried across a redirect.
func FlashToasts(flashes view.FlashData) g.Node {
	var nodes []g.Node
	for _, msg := range flashes.Success {
		nodes = append(nodes, toast("success", msg))
	}
	for _, msg := range flashes.Error {
		nodes = append(nodes, toast("error", msg))
	}
	return Div(ID("toasts"), Class("toasts"), g.Group(nodes))
}

func toast(kind, msg string) g.Node {
	return Div(
		Class("toast toast--"+kind+" toast--auto"),
		g.Attr("role", "status"),
		g.Text(msg),
	)
}

// Notice renders the message produced by an auth submit. With a delay it
// fades out once the delay has passed.
func Notice(n *authflow.Notice, delay time.Duration) g.Node {
	if n == nil {
		return g.Group(nil)
	}
	class := "notice notice--" + n.Kind.String()
	var timing g.Node = g.Group(nil)
	if delay > 0 {
		class += " notice--timed"
		timing = Style(fmt.Sprintf("animation-delay: %dms", delay.Milliseconds()))
	}
	return Div(Class(class), g.Attr("role", "alert"), timing, g.Text(n.Text))
}
