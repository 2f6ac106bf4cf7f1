package engagement

import (
	"crypto/sha256"
	"encoding/hex"
)

// Subsystem tags domain-separate the fingerprints so a single browser
// produces distinct identifiers for views, likes and comments, and the
// stored hashes cannot be cross-correlated by a database reader.
const (
	TagView    = "view"
	TagLike    = "like"
	TagComment = "comment"
)

// Hasher derives stable anonymous viewer identifiers. The salt comes
// from the environment at startup and keeps (ip, ua) pairs from being
// reconstructed offline from stored hashes.
type Hasher struct {
	salt string
}

// NewHasher creates a fingerprint hasher with the process-wide salt.
func NewHasher(salt string) Hasher {
	return Hasher{salt: salt}
}

// Fingerprint returns a deterministic 32-hex-char identifier: SHA-256
// over tag:ip:ua:salt truncated to 128 bits.
func (h Hasher) Fingerprint(tag, ip, userAgent string) string {
	sum := sha256.Sum256([]byte(tag + ":" + ip + ":" + userAgent + ":" + h.salt))
	return hex.EncodeToString(sum[:16])
}
