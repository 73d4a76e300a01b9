// Package vdom provides the virtual node tree used to describe tooltip
// panels and host attributes on the server.
//
// The tree is rendered to HTML by package render and shipped to the
// browser over the live transport. There is no client-side diffing: a
// tooltip panel is small enough that each redraw sends the whole panel.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("vt-tooltip"), Role("tooltip"),
//	    Text("Save changes"),
//	)
//
// Arguments may be attributes (Attr, []Attr), children (*VNode, []*VNode,
// Component, string) or nil, which is ignored so conditional attributes
// can be inlined.
package vdom
