package buildpipeline

import "time"

// PhaseLink is the name of the native link step in progress events.
const PhaseLink = "linking"

// Status captures the progress state of one phase.
type Status string

const (
	// StatusQueued indicates the phase has not started.
	StatusQueued Status = "queued"
	// StatusWorking indicates the phase is running.
	StatusWorking Status = "working"
	// StatusDone indicates the phase finished.
	StatusDone Status = "done"
	// StatusError indicates the phase failed.
	StatusError Status = "error"
)

// Event reports progress for one phase. The build is over when the event
// channel is closed.
type Event struct {
	Phase   string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
