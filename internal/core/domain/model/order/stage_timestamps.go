package order

import (
	"maps"
	"time"
)

// StageTimestamps records when an order entered each stage. Entries are write-once:
// recording a stage that is already present keeps the original instant.
type StageTimestamps struct {
	entries map[Status]time.Time
}

// RestoreStageTimestamps rebuilds the record from stored entries.
func RestoreStageTimestamps(entries map[Status]time.Time) StageTimestamps {
	return StageTimestamps{entries: maps.Clone(entries)}
}

// Record returns a copy with stage entered at the given instant. The boolean is false when
// the stage was already recorded, in which case the copy equals the receiver.
func (s StageTimestamps) Record(stage Status, at time.Time) (StageTimestamps, bool) {
	if _, ok := s.entries[stage]; ok {
		return s, false
	}
	entries := maps.Clone(s.entries)
	if entries == nil {
		entries = make(map[Status]time.Time, 1)
	}
	entries[stage] = at
	return StageTimestamps{entries: entries}, true
}

// At returns the instant the order entered stage.
func (s StageTimestamps) At(stage Status) (time.Time, bool) {
	at, ok := s.entries[stage]
	return at, ok
}

func (s StageTimestamps) Len() int {
	return len(s.entries)
}

// Entries returns a copy of all recorded entries.
func (s StageTimestamps) Entries() map[Status]time.Time {
	return maps.Clone(s.entries)
}
