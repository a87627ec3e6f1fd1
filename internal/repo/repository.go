package repo

import "github.com/hamed0406/tcpmonitor/internal/domain"

// Snapshot is a copy of per-service counters. Callers own it.
type Snapshot map[string]domain.Buckets

// StatsStore accumulates probe outcomes per service. Implementations must be
// safe for concurrent use; a Record either lands entirely before or entirely
// after a concurrent SnapshotAndReset.
type StatsStore interface {
	Record(service string, o domain.ProbeOutcome)
	// SnapshotAndReset returns the current counters and zeroes them in one step.
	SnapshotAndReset() Snapshot
	// Peek returns the current counters without resetting them.
	Peek() Snapshot
}
