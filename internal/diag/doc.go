// Package diag defines the diagnostic model shared by the driver and every
// compilation phase.
//
// Two severities matter to the driver. Errors and warnings are recorded in
// a Bag and counted by the session; the pipeline keeps going and later
// gates decide whether to stop. Fatal conditions are not diagnostics at all
// but a *FatalError value returned up the call chain; cmd/kilnc is the only
// place that maps it to an exit status.
//
// Printer renders diagnostics for humans with github.com/fatih/color.
// Colour is controlled globally through color.NoColor.
package diag
