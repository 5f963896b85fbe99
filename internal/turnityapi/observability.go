package turnityapi

import "github.com/sirupsen/logrus"

// CallEvent records metadata about a single backend call.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	LatencyMs int64
	RequestID string
	ErrorCode string
}

// Observer receives events about backend calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events through logrus.
type LogObserver struct {
	log logrus.FieldLogger
}

// NewLogObserver creates an Observer that logs events to log.
func NewLogObserver(log logrus.FieldLogger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	entry := o.log.WithFields(logrus.Fields{
		"method":     event.Method,
		"path":       event.Path,
		"status":     event.Status,
		"latency_ms": event.LatencyMs,
		"request_id": event.RequestID,
	})
	if event.ErrorCode != "" {
		entry.WithField("error_code", event.ErrorCode).Warn("api call failed")
		return
	}
	entry.Debug("api call")
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
