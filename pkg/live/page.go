package live

import (
	"bytes"
	_ "embed"
	"io"
	"net/http"
	"strings"

	"github.com/vango-dev/tooltip/internal/config"
	"github.com/vango-dev/tooltip/pkg/render"
	"github.com/vango-dev/tooltip/pkg/tooltip"
	"github.com/vango-dev/tooltip/pkg/vdom"
)

//go:embed client.js
var clientScript string

const pageStyles = `
body { font-family: system-ui, sans-serif; margin: 2rem; }
.vt-hosts { display: flex; gap: 1rem; flex-wrap: wrap; padding: 4rem; }
.vt-tooltip-panel { position: fixed; pointer-events: none; z-index: 1000; }
.vt-tooltip {
  background: rgba(97, 97, 97, 0.92); color: #fff; border-radius: 4px;
  font-size: 12px; padding: 6px 8px; max-width: 250px;
  transform: scale(0); opacity: 0;
  transition: transform 150ms cubic-bezier(0, 0, 0.2, 1), opacity 150ms;
}
.vt-tooltip[data-state="visible"] { transform: scale(1); opacity: 1; }
.vt-tooltip-handset { font-size: 14px; padding: 8px 16px; }
.vt-desc { display: none; }
`

// pageOverlay backs the directives used to render host attributes. Those
// directives are never shown, so no pane is ever created.
type pageOverlay struct{}

func (pageOverlay) Create(tooltip.OverlayConfig) tooltip.OverlayRef { return nil }

// platformFromUserAgent guesses the client platform so the rendered hook
// config binds the right events before the client says hello.
func platformFromUserAgent(ua string) tooltip.Platform {
	return tooltip.Platform{
		IOS:     strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad") || strings.Contains(ua, "iPod"),
		Android: strings.Contains(ua, "Android"),
	}
}

// renderHost renders one host button carrying the tooltip hook.
func renderHost(cfg *config.Config, h config.HostConfig, platform tooltip.Platform) (*vdom.VNode, error) {
	opts := []tooltip.Option{
		tooltip.WithOptions(cfg.Options()),
		tooltip.WithPosition(h.Side(cfg.Side())),
		tooltip.WithDirection(cfg.TextDirection()),
		tooltip.WithMessage(h.Message),
		tooltip.WithDisabled(h.Disabled),
		tooltip.WithPlatform(platform),
	}
	d, err := tooltip.NewDirective(tooltip.Host{ID: h.ID, NodeName: "BUTTON"}, pageOverlay{}, opts...)
	if err != nil {
		return nil, err
	}
	defer d.Destroy()

	return vdom.Button(
		vdom.ID(h.ID),
		vdom.Class("vt-host"),
		d.HostAttrs(),
		h.ID,
	), nil
}

// writePage renders the demo page listing every configured host.
func writePage(w io.Writer, cfg *config.Config, platform tooltip.Platform) error {
	hosts := make([]*vdom.VNode, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		node, err := renderHost(cfg, h, platform)
		if err != nil {
			return err
		}
		hosts = append(hosts, node)
	}

	body := vdom.Main(
		vdom.El("h1", "Tooltips"),
		vdom.Div(vdom.Class("vt-hosts"), hosts),
		vdom.Div(vdom.ID("vt-descriptions")),
	)

	renderer := render.NewRenderer(render.RendererConfig{})
	return renderer.RenderPage(w, render.PageData{
		Title:   "Tooltips",
		Body:    body,
		Styles:  []string{pageStyles},
		Scripts: []string{clientScript},
		Dir:     string(cfg.TextDirection()),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := writePage(&buf, s.cfg, platformFromUserAgent(r.UserAgent())); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
