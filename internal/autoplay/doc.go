// Package autoplay runs a repeating task on a timer with a single owner.
//
// A [Controller] is either stopped or running. While running it owns exactly
// one [Task] obtained from a [Scheduler]; changing the interval cancels that
// task and schedules a new one. Every task is tagged with a generation and
// reports it when it fires, so a fire that was already in flight when its
// task was cancelled can be recognised with [Controller.Current] and dropped.
package autoplay
