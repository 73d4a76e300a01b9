package tooltip_test

import (
	"testing"
	"time"

	"github.com/vango-dev/tooltip/pkg/tooltip"
	"github.com/vango-dev/tooltip/pkg/tooltip/tooltiptest"
)

func TestComponentRenderInitial(t *testing.T) {
	panel := tooltip.NewComponent(tooltiptest.NewManualScheduler(), nil)
	panel.SetMessage("Save file")

	want := `<div aria-hidden="true" class="vt-tooltip-component">` +
		`<div class="vt-tooltip" data-state="initial">Save file</div></div>`
	if got := tooltiptest.RenderToString(panel.Render()); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestComponentRenderVisible(t *testing.T) {
	sched := tooltiptest.NewManualScheduler()
	panel := tooltip.NewComponent(sched, nil)
	panel.SetMessage("<b>bold</b>")
	panel.SetClass([]string{"warn", "wide"})

	panel.Show(0)
	sched.Flush()

	node := panel.Render()
	tooltiptest.ExpectAttribute(t, node, "style", "zoom: 1")
	tooltiptest.ExpectAttribute(t, node, "data-state", "visible")
	tooltiptest.ExpectAttribute(t, node, "class", "vt-tooltip warn wide")
	tooltiptest.ExpectContains(t, node, "&lt;b&gt;bold&lt;/b&gt;")
}

func TestComponentHandsetClass(t *testing.T) {
	bp := &tooltiptest.FakeBreakpoints{}
	panel := tooltip.NewComponent(tooltiptest.NewManualScheduler(), bp)
	redraws := 0
	panel.OnChange(func() { redraws++ })

	tooltiptest.ExpectNotContains(t, panel.Render(), "vt-tooltip-handset")

	bp.Set(true)
	if !panel.Handset() {
		t.Fatal("Handset() = false after breakpoint matched")
	}
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1", redraws)
	}
	tooltiptest.ExpectAttribute(t, panel.Render(), "class", "vt-tooltip vt-tooltip-handset")

	bp.Set(true)
	if redraws != 1 {
		t.Errorf("unchanged breakpoint redrew, redraws = %d", redraws)
	}

	panel.Dispose()
	if bp.Observers() != 0 {
		t.Errorf("observers after dispose = %d, want 0", bp.Observers())
	}
}

func TestComponentRedrawOnTimer(t *testing.T) {
	sched := tooltiptest.NewManualScheduler()
	panel := tooltip.NewComponent(sched, nil)
	redraws := 0
	panel.OnChange(func() { redraws++ })

	panel.Show(10 * time.Millisecond)
	if redraws != 0 {
		t.Fatal("redraw before timer fired")
	}
	sched.Advance(10 * time.Millisecond)
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1", redraws)
	}
	if panel.Visibility() != tooltip.VisibilityVisible || !panel.IsVisible() {
		t.Errorf("Visibility() = %s", panel.Visibility())
	}
}

func TestComponentBodyInteraction(t *testing.T) {
	sched := tooltiptest.NewManualScheduler()
	panel := tooltip.NewComponent(sched, nil)
	hidden := 0
	panel.AfterHidden().Subscribe(func() { hidden++ })

	panel.Show(0)
	sched.Flush()
	panel.AnimationStart()
	panel.HandleBodyInteraction()
	sched.Flush()
	if !panel.IsVisible() {
		t.Fatal("click during animation closed the panel")
	}

	panel.AnimationDone(tooltip.VisibilityVisible)
	panel.HandleBodyInteraction()
	sched.Flush()
	if panel.IsVisible() {
		t.Fatal("click after settle did not close the panel")
	}
	panel.AnimationDone(tooltip.VisibilityHidden)
	if hidden != 1 {
		t.Errorf("hidden = %d, want 1", hidden)
	}
}
