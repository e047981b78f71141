package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// AdaptGomponentToTempl lets page content built with gomponents sit inside
// the templ base layout. The node ignores the render context.
func AdaptGomponentToTempl(node gomponents.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return node.Render(w)
	})
}

// AdaptTemplToGomponent embeds a templ component in a gomponents tree.
// gomponents renders without a context, so ctx is captured here; nil means
// context.Background.
func AdaptTemplToGomponent(ctx context.Context, component templ.Component) gomponents.Node {
	if ctx == nil {
		ctx = context.Background()
	}
	return gomponents.NodeFunc(func(w io.Writer) error {
		return component.Render(ctx, w)
	})
}
