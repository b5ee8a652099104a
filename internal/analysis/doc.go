// Package analysis characterizes row-state trajectories.
//
//   - [DetectCycle]: where a panel's orbit becomes periodic, and the period
//   - [Summarize]: per-row position statistics over a trajectory
//   - [NewPhasePortrait]: visited (x, y) position pairs of two rows
//
// # Cycles
//
// The tick is deterministic, so every clamped orbit eventually repeats:
//
//	c, err := analysis.DetectCycle(start, rowstate.Clamped, 10000)
//	// c.Start ticks of transient, then c.Period ticks per loop
package analysis
