// Package topic provides hierarchical topic names for the event bus.
//
// Topics use dot-notation:
//
//	view.layout.changed
//	view.viewport.width.changed
//	view.formatmap.changed
//
// Subscriptions may use two wildcards:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	view.*              matches view.changed (not view.layout.changed)
//	view.**             matches every view topic
//	view.viewport.*.changed matches both viewport width and left topics
package topic
