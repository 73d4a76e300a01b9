package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/tooltip/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Styles contains inline CSS styles
	Styles []string

	// Scripts contains inline scripts appended to the end of body
	Scripts []string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string

	// Dir is the document text direction ("ltr" or "rtl").
	Dir string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if page.Dir != "" {
		_, err := fmt.Fprintf(w, `<html lang="%s" dir="%s">`+"\n", escapeAttr(lang), escapeAttr(page.Dir))
		if err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}

	head := vdom.Head(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Title(page.Title),
	)
	for _, css := range page.Styles {
		head.Children = append(head.Children, vdom.El("style", vdom.Raw(css)))
	}
	if err := r.RenderToWriter(w, head); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	for _, script := range page.Scripts {
		if err := r.RenderToWriter(w, vdom.Script(vdom.Raw(script))); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
