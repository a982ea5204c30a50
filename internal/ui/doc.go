// Package ui contains the Bubble Tea program that browses iModel snapshots.
// The Model type focuses on message orchestration, while dedicated helpers own
// navigation, input, rendering, and state updates.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - While the file prompt is open, key presses go to it. Everything else is
//     routed through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - Work that touches a snapshot (opening it, loading panels, toggling
//     visibility) runs as tea.Cmd values built by the internal/ui/command bus,
//     so queries never block rendering.
//
// Screens:
//   - The snapshots screen lists the .bim documents reported by the bridge and
//     a "Choose File..." row that prompts for a path.
//   - The model screen shows the categories and models panels as tabs for the
//     open snapshot. Esc closes the snapshot and returns to the list.
//
// Notifications:
//   - Panels and the viewport notify subscribers from whatever goroutine made
//     the change. Those callbacks post messages to an inbox channel that a
//     long-running command drains into the update loop. Visibility markers are
//     read from the active view's selectors on every render.
//   - A backend.Watcher streams document list changes which the dispatcher
//     applies to the snapshots screen.
package ui
