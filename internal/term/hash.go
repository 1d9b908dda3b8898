package term

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRule is the domain prefix for rule hashes.
// Version suffix enables future encoding migration.
const DomainRule = "srl/rule/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content-addressed identity of t.
//
// Hash is taken over t exactly as given. Callers that want alpha-equivalent
// rules to share a hash must normalize first; every rule stored in a
// database already is.
func Hash(t Term) (string, error) {
	canonical, err := MarshalCanonical(t)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRule, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when t is known to be non-nil.
func MustHash(t Term) string {
	h, err := Hash(t)
	if err != nil {
		panic(err)
	}
	return h
}
