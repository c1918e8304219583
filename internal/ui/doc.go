// Package ui is the terminal host for the widget showcase, built on Bubble Tea.
//
// Core pieces:
//   - AppModel: owns the session, re-runs the render pass after every change
//   - PagePainter: turns a render.Page into styled terminal text
//   - FocusManager: rotates focus across the controls of the active tab
//   - KeybindRegistry/KeyHandler: single keys and SPC-prefixed sequences
//   - OverlayStack: modal views that take input until dismissed
package ui
