// Package hooks connects server-side tooltip state to browser behaviour.
//
// A hook is a named client behaviour attached to an element through the
// v-hook attribute. The browser runs the hook, listens for DOM events on
// the element and reports them back to the server as HookEvents, where
// they drive the tooltip directive.
//
// Usage:
//
//	Button(
//	    Hook("Tooltip", map[string]any{"position": "top"}),
//	    Text("Save"),
//	)
package hooks
