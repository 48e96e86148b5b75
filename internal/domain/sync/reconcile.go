package sync

import (
	"time"

	"github.com/partnerbridge/backend/internal/domain/shared"
)

// ErrStaleUpdate is returned when an incoming update carries a timestamp
// older than the stored record. Callers must fetch the current record and
// resubmit with corrected data; blindly retrying the same payload will fail
// again.
var ErrStaleUpdate = shared.NewDomainError("CONFLICT", "Incoming update is older than existing record")

// ShouldAccept decides whether an incoming update supersedes the stored
// record. An update without a timestamp is treated as authoritative and
// always accepted. A timestamped update wins iff its timestamp is not older
// than the stored one; ties favor the incoming value (last-write-wins,
// non-strict).
func ShouldAccept(existingUpdatedAt time.Time, incomingUpdatedAt *time.Time) bool {
	if incomingUpdatedAt == nil {
		return true
	}
	return !incomingUpdatedAt.Before(existingUpdatedAt)
}
