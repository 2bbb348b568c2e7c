package manager

import "github.com/rs/zerolog"

// LogPublisher writes lifecycle events to a zerolog logger.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher returns a publisher that logs every event at info level,
// and training failures at warn level.
func NewLogPublisher(l zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: l.With().Str("component", "registry").Logger()}
}

func (p *LogPublisher) Publish(e Event) {
	ev := p.log.Info()
	if e.Name == EventTrainFailed {
		ev = p.log.Warn()
	}
	ev.Str("event", e.Name).Str("model", e.Model).Fields(e.Fields).Msg("model event")
}

// fanout publishes to several publishers in order.
type fanout []EventPublisher

func (f fanout) Publish(e Event) {
	for _, p := range f {
		p.Publish(e)
	}
}

// MultiPublisher combines publishers; nil entries are skipped.
func MultiPublisher(pubs ...EventPublisher) EventPublisher {
	out := make(fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
