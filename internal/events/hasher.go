package events

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"strings"
)

// Hasher derives stable keys for events that carry no identifier.
type Hasher struct {
	algorithm string
	newHash   func() hash.Hash
}

func NewHasher(algorithm string) *Hasher {
	algorithm = strings.ToLower(algorithm)
	switch algorithm {
	case "md5":
		return &Hasher{algorithm: algorithm, newHash: md5.New}
	case "sha1":
		return &Hasher{algorithm: algorithm, newHash: sha1.New}
	default:
		return &Hasher{algorithm: "sha256", newHash: sha256.New}
	}
}

// ContentHash hashes the canonical JSON form of raw. encoding/json writes map
// keys in sorted order, so equal payloads hash equally regardless of the
// order the upstream API emitted their fields in.
func (h *Hasher) ContentHash(raw map[string]interface{}) (string, error) {
	canonical, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize event: %w", err)
	}

	sum := h.newHash()
	sum.Write(canonical)
	return h.algorithm + ":" + hex.EncodeToString(sum.Sum(nil)), nil
}
