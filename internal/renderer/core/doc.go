// Package core provides shared types for the renderer subsystem.
//
// It holds colors, brushes, terminal cells and the two rectangle flavors the
// renderer works with: ScreenRect in whole terminal cells, and Rect in
// layout units as produced by the text view.
// This package breaks import cycles between renderer packages and backend.
package core
