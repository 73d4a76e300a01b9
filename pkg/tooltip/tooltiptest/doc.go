// Package tooltiptest provides test doubles for the tooltip package.
//
// ManualScheduler replaces wall-clock timers with a virtual clock, so
// delay behavior can be asserted deterministically:
//
//	sched := tooltiptest.NewManualScheduler()
//	panel := tooltip.NewComponent(sched, nil)
//	panel.Show(100 * time.Millisecond)
//	sched.Advance(99 * time.Millisecond) // still initial
//	sched.Advance(time.Millisecond)      // visible
//
// FakeOverlay, FakeDescriber, FakeFocusMonitor, FakeBreakpoints and
// FakeScroll record the calls a Directive makes to its collaborators.
//
// # Render Assertions
//
//	tooltiptest.ExpectContains(t, panel.Render(), "Save")
//	tooltiptest.ExpectAttribute(t, panel.Render(), "data-state", "visible")
package tooltiptest
