// Package viz is the terminal front end for a rowsim session.
//
// [Model] is a Bubble Tea model that draws every panel onto a Braille
// [Canvas] through the render package, edits row fields in place and
// drives autoplay. [Run] wires the session's autoplay fires into the
// program's event loop as [AutoplayMsg] values, so ticks and key presses
// are handled one at a time.
//
// # Key Bindings
//
//	t      - Tick every panel once
//	Space  - Start/stop autoplay
//	+/-    - Move the autoplay interval slider
//	Tab    - Focus the next panel
//	Arrows - Move the field cursor
//	Enter  - Edit the focused field (applied as you type)
//	r      - Reset all panels
//	p      - Save the focused panel as PNG
//	T      - Cycle colour themes
//	?      - Show help overlay
package viz
