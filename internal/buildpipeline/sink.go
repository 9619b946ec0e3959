package buildpipeline

import "kiln/internal/driver"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// PhaseObserver turns driver phase events into progress events for sink.
func PhaseObserver(sink ProgressSink) driver.PhaseObserver {
	if sink == nil {
		return nil
	}
	return func(ev driver.PhaseEvent) {
		switch {
		case ev.Status == driver.PhaseStart:
			sink.OnEvent(Event{Phase: ev.Name, Status: StatusWorking})
		case ev.Err != nil:
			sink.OnEvent(Event{Phase: ev.Name, Status: StatusError, Err: ev.Err, Elapsed: ev.Elapsed})
		default:
			sink.OnEvent(Event{Phase: ev.Name, Status: StatusDone, Elapsed: ev.Elapsed})
		}
	}
}

func emit(sink ProgressSink, phase string, status Status, err error) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Phase: phase, Status: status, Err: err})
}
