// Package monitor implements the terminal dashboard that renders live CPU,
// memory and disk metrics.
//
// The package is the display half of the dashboard. A dashboard.Controller
// owns polling, the series windows and the alert state; it emits events into
// a Bridge, and the Bubble Tea Model folds those events into what it draws:
//
//	controller --Emit--> Bridge.events --pollEventsCmd--> Model.Update --> View
//	Model (focus, blur, p) --> Bridge.visibility --> controller
//
// Controller calls triggered from the keyboard run as commands, off the
// update loop, because the controller may be blocked emitting into a full
// bridge.
//
// # Layout Modes
//
//	LayoutCompact  (<80 cols)   - stacked cards, single-row sparklines
//	LayoutStandard (80-132)     - stacked cards, braille graphs
//	LayoutWide     (132+)       - cards side by side
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Fetch now
//	p           - Pause / resume polling
//	x, Esc      - Dismiss the alert banner
//	?           - Toggle help overlay
package monitor
