package tooltip_test

import (
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/tooltip/pkg/features/hooks"
	"github.com/vango-dev/tooltip/pkg/features/hooks/standard"
	"github.com/vango-dev/tooltip/pkg/tooltip"
	"github.com/vango-dev/tooltip/pkg/tooltip/tooltiptest"
)

var testHost = tooltip.Host{ID: "save-btn", NodeName: "BUTTON"}

type directiveFixture struct {
	d         *tooltip.Directive
	sched     *tooltiptest.ManualScheduler
	overlay   *tooltiptest.FakeOverlay
	describer *tooltiptest.FakeDescriber
	focus     *tooltiptest.FakeFocusMonitor
}

func newDirective(t *testing.T, opts ...tooltip.Option) *directiveFixture {
	t.Helper()
	f := &directiveFixture{
		sched:     tooltiptest.NewManualScheduler(),
		overlay:   &tooltiptest.FakeOverlay{},
		describer: tooltiptest.NewFakeDescriber(),
		focus:     &tooltiptest.FakeFocusMonitor{},
	}
	base := []tooltip.Option{
		tooltip.WithScheduler(f.sched),
		tooltip.WithDescriber(f.describer),
		tooltip.WithFocusMonitor(f.focus),
		tooltip.WithScrollDispatcher(tooltiptest.FakeScroll{"main", "sidebar"}),
		tooltip.WithMessage("Save"),
	}
	d, err := tooltip.NewDirective(testHost, f.overlay, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewDirective() error = %v", err)
	}
	f.d = d
	return f
}

// settle runs pending timers and reports the panel animation as finished.
func (f *directiveFixture) settle() {
	f.sched.Flush()
	if panel := f.d.Instance(); panel != nil {
		panel.AnimationDone(panel.Visibility())
	}
}

func TestNewDirectiveValidation(t *testing.T) {
	if _, err := tooltip.NewDirective(testHost, nil); err == nil {
		t.Error("expected error for nil overlay")
	}

	_, err := tooltip.NewDirective(testHost, &tooltiptest.FakeOverlay{}, tooltip.WithPosition("middle"))
	if !tooltip.IsInvalidPosition(err) {
		t.Errorf("error = %v, want InvalidPositionError", err)
	}
}

func TestDirectiveDescribesAndMonitors(t *testing.T) {
	f := newDirective(t)

	if msg, ok := f.describer.Description(testHost); !ok || msg != "Save" {
		t.Errorf("description = %q, %v", msg, ok)
	}
	if !f.focus.Monitoring(testHost) {
		t.Error("focus monitoring not started")
	}
	if f.overlay.Created() != 0 {
		t.Error("overlay created before first show")
	}
}

func TestDirectiveShowCreatesOverlayOnce(t *testing.T) {
	f := newDirective(t, tooltip.WithPosition(tooltip.SideTop))

	f.d.Show()
	f.settle()
	if !f.d.IsTooltipVisible() {
		t.Fatal("tooltip not visible after show")
	}

	ref := f.overlay.Last()
	if ref.Config.PanelClass != tooltip.PanelClass {
		t.Errorf("PanelClass = %q", ref.Config.PanelClass)
	}
	if ref.Config.ScrollThrottle != tooltip.ScrollThrottle || ref.Config.ViewportMargin != tooltip.ViewportMargin {
		t.Errorf("config = %+v", ref.Config)
	}
	if strings.Join(ref.Config.ScrollContainers, ",") != "main,sidebar" {
		t.Errorf("ScrollContainers = %v", ref.Config.ScrollContainers)
	}
	want, _ := tooltip.Resolve(tooltip.SideTop, "")
	if ref.Placement() != want {
		t.Errorf("placement = %+v, want %+v", ref.Placement(), want)
	}
	if ref.Panel == nil || ref.Panel.Message() != "Save" {
		t.Fatal("panel not attached with message")
	}

	f.d.Hide()
	f.settle()
	if ref.HasAttached() || f.d.Instance() != nil {
		t.Fatal("panel not detached after settling hidden")
	}

	f.d.Show()
	f.settle()
	if f.overlay.Created() != 1 {
		t.Errorf("overlay created %d times, want 1", f.overlay.Created())
	}
	if ref.Attaches != 2 {
		t.Errorf("attaches = %d, want 2", ref.Attaches)
	}
}

func TestDirectiveShowDelay(t *testing.T) {
	f := newDirective(t, tooltip.WithShowDelay(200*time.Millisecond))

	f.d.Show()
	f.sched.Advance(199 * time.Millisecond)
	if f.d.IsTooltipVisible() {
		t.Fatal("visible before show delay")
	}
	f.sched.Advance(time.Millisecond)
	if !f.d.IsTooltipVisible() {
		t.Fatal("not visible after show delay")
	}
}

func TestDirectiveShowIgnoredWithoutMessageOrDisabled(t *testing.T) {
	f := newDirective(t, tooltip.WithMessage("   "))
	f.d.Show()
	f.settle()
	if f.overlay.Created() != 0 {
		t.Error("overlay created for blank message")
	}

	f = newDirective(t, tooltip.WithDisabled(true))
	f.d.Show()
	f.settle()
	if f.overlay.Created() != 0 {
		t.Error("overlay created while disabled")
	}
}

func TestDirectiveSetDisabledHides(t *testing.T) {
	f := newDirective(t)
	f.d.Show()
	f.settle()

	f.d.SetDisabled(true)
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("still visible after disable")
	}
	if !f.d.Disabled() {
		t.Error("Disabled() = false")
	}
}

func TestDirectiveStaleHiddenDoesNotDetachNewPanel(t *testing.T) {
	f := newDirective(t)
	f.d.Show()
	f.settle()
	old := f.d.Instance()

	f.d.Hide()
	f.sched.Flush()
	f.d.Show()
	f.sched.Flush()
	fresh := f.d.Instance()
	if fresh == old {
		t.Fatal("show did not replace the panel")
	}

	old.AnimationDone(tooltip.VisibilityHidden)
	if f.d.Instance() != fresh || !f.overlay.Last().HasAttached() {
		t.Error("stale panel detached the new one")
	}
}

func TestDirectiveSetPosition(t *testing.T) {
	f := newDirective(t, tooltip.WithDirection(tooltip.DirRTL))
	if err := f.d.SetPosition("nowhere"); !tooltip.IsInvalidPosition(err) {
		t.Fatalf("SetPosition() error = %v", err)
	}

	// Before the overlay exists only the field changes.
	if err := f.d.SetPosition(tooltip.SideLeft); err != nil {
		t.Fatal(err)
	}
	f.d.Show()
	f.settle()
	ref := f.overlay.Last()
	want, _ := tooltip.Resolve(tooltip.SideLeft, tooltip.DirRTL)
	if ref.Placement() != want {
		t.Errorf("placement = %+v, want %+v", ref.Placement(), want)
	}

	updates := ref.Updates
	if err := f.d.SetPosition(tooltip.SideTop); err != nil {
		t.Fatal(err)
	}
	want, _ = tooltip.Resolve(tooltip.SideTop, tooltip.DirRTL)
	if ref.Placement() != want {
		t.Errorf("placement after change = %+v, want %+v", ref.Placement(), want)
	}
	if ref.Updates <= updates {
		t.Error("position not recomputed")
	}
	if f.d.Position() != tooltip.SideTop {
		t.Errorf("Position() = %s", f.d.Position())
	}
}

func TestDirectiveSetMessage(t *testing.T) {
	f := newDirective(t)
	f.d.Show()
	f.settle()

	f.d.SetMessage("  Save as  ")
	if f.d.Message() != "Save as" {
		t.Errorf("Message() = %q", f.d.Message())
	}
	if msg, _ := f.describer.Description(testHost); msg != "Save as" {
		t.Errorf("description = %q", msg)
	}
	if f.d.Instance().Message() != "Save as" {
		t.Errorf("panel message = %q", f.d.Instance().Message())
	}

	f.d.SetMessage("")
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("empty message did not hide the tooltip")
	}
	if _, ok := f.describer.Description(testHost); ok {
		t.Error("description kept for empty message")
	}
}

func TestDirectiveSetClass(t *testing.T) {
	f := newDirective(t, tooltip.WithClass("first"))
	f.d.Show()
	f.settle()
	tooltiptest.ExpectAttribute(t, f.d.Instance().Render(), "class", "vt-tooltip first")

	f.d.SetClass(map[string]bool{"second": true})
	tooltiptest.ExpectAttribute(t, f.d.Instance().Render(), "class", "vt-tooltip second")
}

func TestDirectiveKeydown(t *testing.T) {
	f := newDirective(t)
	if f.d.HandleKeydown(tooltip.KeyEscape) {
		t.Error("escape consumed while hidden")
	}

	f.d.Show()
	f.settle()
	if f.d.HandleKeydown("Enter") {
		t.Error("non-escape key consumed")
	}
	if !f.d.HandleKeydown(tooltip.KeyEscape) {
		t.Fatal("escape not consumed while visible")
	}
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("escape did not hide")
	}
}

func TestDirectiveTouchend(t *testing.T) {
	f := newDirective(t, tooltip.WithPlatform(tooltip.Platform{Android: true}))
	f.d.HandleLongPress()
	f.settle()

	f.d.HandleTouchend()
	f.sched.Advance(1499 * time.Millisecond)
	if !f.d.IsTooltipVisible() {
		t.Fatal("hidden before touchend delay")
	}
	f.sched.Advance(time.Millisecond)
	if f.d.IsTooltipVisible() {
		t.Error("still visible after touchend delay")
	}
}

func TestDirectiveMouseEventsOnMobile(t *testing.T) {
	f := newDirective(t, tooltip.WithPlatform(tooltip.Platform{IOS: true}))
	f.d.HandleMouseEnter()
	f.settle()
	if f.overlay.Created() != 0 {
		t.Error("mouseenter handled on iOS")
	}
	for _, ev := range f.d.BoundEvents() {
		if strings.HasPrefix(ev, "mouse") {
			t.Errorf("BoundEvents() contains %q on iOS", ev)
		}
	}

	f = newDirective(t)
	f.d.HandleMouseEnter()
	f.settle()
	if !f.d.IsTooltipVisible() {
		t.Fatal("mouseenter not handled on desktop")
	}
	f.d.HandleMouseLeave()
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("mouseleave not handled on desktop")
	}
}

func TestDirectiveFocusOrigin(t *testing.T) {
	f := newDirective(t)

	f.focus.Emit(testHost, tooltip.FocusMouse)
	f.settle()
	if f.overlay.Created() != 0 {
		t.Fatal("mouse focus showed the tooltip")
	}

	f.focus.Emit(testHost, tooltip.FocusKeyboard)
	f.settle()
	if !f.d.IsTooltipVisible() {
		t.Fatal("keyboard focus did not show the tooltip")
	}

	f.focus.Emit(testHost, tooltip.FocusNone)
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("blur did not hide the tooltip")
	}
}

func TestDirectiveClippedHides(t *testing.T) {
	f := newDirective(t)
	f.d.Show()
	f.settle()

	f.overlay.Last().Clip()
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("clipped tooltip still visible")
	}
}

func TestDirectiveExternalDetach(t *testing.T) {
	f := newDirective(t)
	f.d.Show()
	f.settle()

	f.overlay.Last().ExternalDetach()
	if f.d.Instance() != nil {
		t.Error("instance kept after overlay detached")
	}
}

func TestDirectiveToggle(t *testing.T) {
	f := newDirective(t)
	f.d.Toggle()
	f.settle()
	if !f.d.IsTooltipVisible() {
		t.Fatal("toggle did not show")
	}
	f.d.Toggle()
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("toggle did not hide")
	}
}

func TestDirectiveRedraw(t *testing.T) {
	var hosts []string
	f := newDirective(t, tooltip.WithRedraw(func(h tooltip.Host, _ *tooltip.Component) {
		hosts = append(hosts, h.ID)
	}))

	f.d.Show()
	f.sched.Flush()
	if len(hosts) == 0 || hosts[0] != testHost.ID {
		t.Errorf("redraws = %v", hosts)
	}
}

func TestDirectiveHostAttrs(t *testing.T) {
	f := newDirective(t,
		tooltip.WithPosition(tooltip.SideRight),
		tooltip.WithOptions(tooltip.Options{
			ShowDelay:         100 * time.Millisecond,
			HideDelay:         50 * time.Millisecond,
			TouchendHideDelay: time.Second,
		}),
	)

	attrs := f.d.HostAttrs()
	if len(attrs) != 2 {
		t.Fatalf("HostAttrs() = %+v", attrs)
	}
	if attrs[0].Key != "aria-describedby" || attrs[0].Value != tooltip.DescriptionID(testHost) {
		t.Errorf("describedby = %+v", attrs[0])
	}
	if attrs[1].Key != hooks.AttrKey {
		t.Fatalf("hook attr = %+v", attrs[1])
	}
	name, raw, err := hooks.ParseHook(attrs[1].Value.(string))
	if err != nil || name != standard.TooltipHookName {
		t.Fatalf("ParseHook() = %q, %v", name, err)
	}
	for _, want := range []string{
		`"position":"right"`,
		`"showDelay":100`,
		`"hideDelay":50`,
		`"touchendHideDelay":1000`,
		`"mouseenter"`,
	} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("config %s missing %s", raw, want)
		}
	}
}

func TestDirectiveHostAttrsWithoutMessage(t *testing.T) {
	f := newDirective(t, tooltip.WithMessage(""))
	attrs := f.d.HostAttrs()
	if !attrs[0].IsEmpty() {
		t.Errorf("describedby rendered without message: %+v", attrs[0])
	}
}

func TestDirectiveDestroy(t *testing.T) {
	f := newDirective(t)
	f.d.Show()
	f.settle()
	ref := f.overlay.Last()

	f.d.Destroy()
	f.d.Destroy()

	if !ref.Disposed {
		t.Error("overlay not disposed")
	}
	if f.focus.Monitoring(testHost) || len(f.focus.Stopped) != 1 {
		t.Errorf("focus monitoring not stopped once: %v", f.focus.Stopped)
	}
	if _, ok := f.describer.Description(testHost); ok {
		t.Error("description not removed")
	}

	f.d.Show()
	f.sched.Flush()
	if f.d.IsTooltipVisible() {
		t.Error("destroyed directive showed")
	}
}
