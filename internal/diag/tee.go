package diag

import "github.com/roach88/hooks/internal/hooks"

type tee []hooks.Sink

// Tee returns a sink forwarding each event to every non-nil sink, in order.
func Tee(sinks ...hooks.Sink) hooks.Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t tee) Notify(ev hooks.Event) {
	for _, s := range t {
		s.Notify(ev)
	}
}
