// Package render converts vdom trees into HTML.
//
// It is used twice by the tooltip stack: the live transport renders each
// tooltip panel to an HTML fragment before pushing it to the browser, and
// the demo server renders the full page on the initial GET.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// Text and attribute values are escaped. Attributes are emitted in sorted
// order so output is deterministic and easy to assert on in tests.
package render
