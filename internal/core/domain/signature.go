package domain

import "time"

// SignatureRecord is the persisted signature of one key. Keys are the first
// output path of ordinary tasks (their name when they have no output) and
// absolute paths for pseudo-targets.
type SignatureRecord struct {
	Key       string    `json:"key,omitzero"`
	Signature string    `json:"signature,omitzero"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}
