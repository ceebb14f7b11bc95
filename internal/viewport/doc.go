// Package viewport converts between screen and world coordinates.
//
// World coordinates are persisted with notes and never depend on the current
// pan or zoom. Screen coordinates are what the input device reports. All
// functions are pure and return a new [models.Viewport] instead of mutating one.
package viewport
