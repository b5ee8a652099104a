// Package rowstate provides the state primitives of the row simulation.
//
// A panel's state is three rows, each a bounded integer triple:
//
//   - [Triple]: the (min, pos, max) of one row
//   - [State]: the Top, Mid and Btm rows of one panel
//   - [Coupling]: selects the tick variant (clamped or unclamped top)
//
// # Tick
//
// [State.Tick] moves every row's position by at most one unit per call.
// Top follows the sign of Mid, Mid follows the sign of Btm, and Btm moves
// against the sign of Top. Top and Mid read their neighbour before the tick,
// Btm reads Top after Top has already moved.
//
// # Bounds
//
// min <= pos <= max is a target, not an invariant. Setters never validate,
// and with [UnclampedTop] the Top row is free to leave its range.
package rowstate
