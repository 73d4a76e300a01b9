package tooltiptest

import (
	"sync"

	"github.com/vango-dev/tooltip/pkg/tooltip"
)

// FakeOverlay records the panes it creates.
type FakeOverlay struct {
	mu   sync.Mutex
	Refs []*FakeOverlayRef
}

// Create implements tooltip.Overlay.
func (o *FakeOverlay) Create(cfg tooltip.OverlayConfig) tooltip.OverlayRef {
	ref := &FakeOverlayRef{Config: cfg}
	o.mu.Lock()
	o.Refs = append(o.Refs, ref)
	o.mu.Unlock()
	return ref
}

// Created returns the number of panes created.
func (o *FakeOverlay) Created() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Refs)
}

// Last returns the most recent pane, or nil.
func (o *FakeOverlay) Last() *FakeOverlayRef {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Refs) == 0 {
		return nil
	}
	return o.Refs[len(o.Refs)-1]
}

// FakeOverlayRef is a pane that records what it was asked to do.
type FakeOverlayRef struct {
	Config tooltip.OverlayConfig

	Panel      *tooltip.Component
	Placements []tooltip.Placement
	Attaches   int
	Detaches   int
	Updates    int
	Disposed   bool
}

// Attach implements tooltip.OverlayRef.
func (r *FakeOverlayRef) Attach(panel *tooltip.Component) {
	r.Panel = panel
	r.Attaches++
}

// Detach implements tooltip.OverlayRef.
func (r *FakeOverlayRef) Detach() {
	if r.Panel != nil {
		r.Panel = nil
		r.Detaches++
	}
}

// HasAttached implements tooltip.OverlayRef.
func (r *FakeOverlayRef) HasAttached() bool { return r.Panel != nil }

// SetPlacement implements tooltip.OverlayRef.
func (r *FakeOverlayRef) SetPlacement(p tooltip.Placement) {
	r.Placements = append(r.Placements, p)
}

// UpdatePosition implements tooltip.OverlayRef.
func (r *FakeOverlayRef) UpdatePosition() { r.Updates++ }

// Dispose implements tooltip.OverlayRef.
func (r *FakeOverlayRef) Dispose() {
	r.Panel = nil
	r.Disposed = true
}

// Placement returns the last placement applied, or the zero value.
func (r *FakeOverlayRef) Placement() tooltip.Placement {
	if len(r.Placements) == 0 {
		return tooltip.Placement{}
	}
	return r.Placements[len(r.Placements)-1]
}

// Clip reports that a scrollable ancestor clips the pane.
func (r *FakeOverlayRef) Clip() {
	if r.Config.OnPositionChange != nil {
		r.Config.OnPositionChange(tooltip.PositionChange{
			Pair:           r.Placement().Primary,
			OverlayClipped: true,
		})
	}
}

// ExternalDetach simulates the pane detaching on its own.
func (r *FakeOverlayRef) ExternalDetach() {
	r.Panel = nil
	if r.Config.OnDetach != nil {
		r.Config.OnDetach()
	}
}

// FakeDescriber tracks the current description of each host.
type FakeDescriber struct {
	mu           sync.Mutex
	Descriptions map[string]string
	Removed      []string
}

// NewFakeDescriber returns an empty describer.
func NewFakeDescriber() *FakeDescriber {
	return &FakeDescriber{Descriptions: map[string]string{}}
}

// Describe implements tooltip.AriaDescriber.
func (d *FakeDescriber) Describe(host tooltip.Host, message string) {
	d.mu.Lock()
	d.Descriptions[host.ID] = message
	d.mu.Unlock()
}

// RemoveDescription implements tooltip.AriaDescriber.
func (d *FakeDescriber) RemoveDescription(host tooltip.Host, message string) {
	d.mu.Lock()
	if d.Descriptions[host.ID] == message {
		delete(d.Descriptions, host.ID)
	}
	d.Removed = append(d.Removed, message)
	d.mu.Unlock()
}

// Description returns the description registered for host.
func (d *FakeDescriber) Description(host tooltip.Host) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	msg, ok := d.Descriptions[host.ID]
	return msg, ok
}

// FakeFocusMonitor lets tests emit focus origin changes.
type FakeFocusMonitor struct {
	mu      sync.Mutex
	fns     map[string]func(tooltip.FocusOrigin)
	Stopped []string
}

// Monitor implements tooltip.FocusMonitor.
func (f *FakeFocusMonitor) Monitor(host tooltip.Host, fn func(tooltip.FocusOrigin)) func() {
	f.mu.Lock()
	if f.fns == nil {
		f.fns = map[string]func(tooltip.FocusOrigin){}
	}
	f.fns[host.ID] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.fns, host.ID)
		f.Stopped = append(f.Stopped, host.ID)
		f.mu.Unlock()
	}
}

// Emit reports origin for host. It does nothing for unmonitored hosts.
func (f *FakeFocusMonitor) Emit(host tooltip.Host, origin tooltip.FocusOrigin) {
	f.mu.Lock()
	fn := f.fns[host.ID]
	f.mu.Unlock()
	if fn != nil {
		fn(origin)
	}
}

// Monitoring reports whether host is monitored.
func (f *FakeFocusMonitor) Monitoring(host tooltip.Host) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.fns[host.ID]
	return ok
}

// FakeBreakpoints evaluates every query to a single settable value.
type FakeBreakpoints struct {
	mu      sync.Mutex
	matches bool
	next    int
	fns     map[int]func(tooltip.BreakpointState)
}

// Observe implements tooltip.BreakpointObserver. The current state is
// reported immediately.
func (b *FakeBreakpoints) Observe(_ string, fn func(tooltip.BreakpointState)) func() {
	b.mu.Lock()
	if b.fns == nil {
		b.fns = map[int]func(tooltip.BreakpointState){}
	}
	b.next++
	id := b.next
	b.fns[id] = fn
	st := tooltip.BreakpointState{Matches: b.matches}
	b.mu.Unlock()

	fn(st)
	return func() {
		b.mu.Lock()
		delete(b.fns, id)
		b.mu.Unlock()
	}
}

// Set changes the match result and notifies observers.
func (b *FakeBreakpoints) Set(matches bool) {
	b.mu.Lock()
	b.matches = matches
	fns := make([]func(tooltip.BreakpointState), 0, len(b.fns))
	for _, fn := range b.fns {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(tooltip.BreakpointState{Matches: matches})
	}
}

// Observers returns the number of live observers.
func (b *FakeBreakpoints) Observers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.fns)
}

// FakeScroll returns a fixed list of scroll containers for every host.
type FakeScroll []string

// AncestorScrollContainers implements tooltip.ScrollDispatcher.
func (s FakeScroll) AncestorScrollContainers(tooltip.Host) []string { return s }
