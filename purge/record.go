package purge

import (
	"time"

	"github.com/google/uuid"
)

// ResultInfo summarizes one bucket of a completed purge.
type ResultInfo struct {
	Size  int64
	Count int
}

// Record is the terminal summary of a completed purge operation. Artifacts
// covers project build output, Caches covers global tool caches.
type Record struct {
	ID        string
	Date      time.Time
	Artifacts ResultInfo
	Caches    ResultInfo
}

// NewRecord stamps a fresh record with an id and the current time.
func NewRecord(artifacts, caches ResultInfo) Record {
	return Record{
		ID:        uuid.NewString(),
		Date:      time.Now(),
		Artifacts: artifacts,
		Caches:    caches,
	}
}

// CombinedSize returns the total purged size across both buckets. It is
// only defined when both bucket sizes are strictly positive; a record with
// one empty bucket never reports a combined total.
func (r Record) CombinedSize() (int64, bool) {
	if r.Artifacts.Size <= 0 || r.Caches.Size <= 0 {
		return 0, false
	}
	return r.Artifacts.Size + r.Caches.Size, true
}

// ConfirmInfo is the immutable confirmation payload shown before a purge
// starts. It is a snapshot of the selection at the moment the user asked to
// purge and does not follow later selection changes.
type ConfirmInfo struct {
	Title          string
	ItemType       string
	ItemCount      int
	PurgeableBytes int64
	Details        []string
	ButtonText     string
}

// PurgeOutcome pairs the record of a completed purge with the ids of items
// that could not be purged, so the caller can drop exactly the items that
// are gone.
type PurgeOutcome struct {
	Record    Record
	FailedIDs []string
}
