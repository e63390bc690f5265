package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainSelector prefixes selector hashes.
const DomainSelector = "objsel/selector/v1"

// Hash returns a content hash of the resolved selector.
// Format: SHA256(domain + 0x00 + json(selector))
func Hash(s Selector) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("hash selector %q: %w", s.Name, err)
	}

	h := sha256.New()
	h.Write([]byte(DomainSelector))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
