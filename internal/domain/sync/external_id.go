package sync

import "github.com/google/uuid"

// externalIDNamespace is the fixed UUIDv5 namespace for synthesized
// external IDs. It must never change: the same (source, local ref) pair has
// to produce the same external ID in every environment, otherwise a record
// pushed from staging and production would reconcile as two partners.
var externalIDNamespace = uuid.MustParse("5b1f8a46-9a34-4f6e-9c31-2f1f3f8c7d10")

// SynthesizeExternalID derives a deterministic external ID for a record
// that arrives without one. The result is "<source>-<uuidv5>", namespaced
// by the originating system so local primary keys from different sources
// can never collide.
func SynthesizeExternalID(source, localRef string) string {
	return source + "-" + uuid.NewSHA1(externalIDNamespace, []byte(source+":"+localRef)).String()
}
