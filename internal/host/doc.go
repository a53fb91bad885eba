// Package host defines the text view capabilities the decoration engine
// consumes: the data it reads (lines, viewport, selection), the events it
// reacts to, and the topics those events travel on.
//
// Nothing here knows how text is stored, tokenized or laid out. Any view
// that can answer these queries and publish these events can host the
// engine.
package host
