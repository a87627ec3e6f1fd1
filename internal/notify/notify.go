package notify

import (
	"time"

	"github.com/hamed0406/tcpmonitor/internal/domain"
)

// Notifier receives the user-facing lifecycle events of the monitor.
type Notifier interface {
	Started(targets []domain.Target)
	Heartbeat()
	Reported(file string, at time.Time)
	Stopping()
}

// Multi fans every event out to each non-nil notifier.
type Multi []Notifier

func (m Multi) Started(targets []domain.Target) {
	for _, n := range m {
		if n != nil {
			n.Started(targets)
		}
	}
}

func (m Multi) Heartbeat() {
	for _, n := range m {
		if n != nil {
			n.Heartbeat()
		}
	}
}

func (m Multi) Reported(file string, at time.Time) {
	for _, n := range m {
		if n != nil {
			n.Reported(file, at)
		}
	}
}

func (m Multi) Stopping() {
	for _, n := range m {
		if n != nil {
			n.Stopping()
		}
	}
}
