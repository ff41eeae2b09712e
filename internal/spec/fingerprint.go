package spec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// fingerprintDomain separates spec fingerprints from any other SHA-256
// use. Bump the version suffix if the canonical form ever changes.
const fingerprintDomain = "cyphergen/spec/v1"

// FingerprintJSON computes the identity of an input document: SHA-256
// over the domain tag, a zero byte, and the canonical serialization.
// The result is stable across key order and whitespace.
func FingerprintJSON(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("decoding document: %w", err)
	}
	return FingerprintDoc(doc)
}

// FingerprintDoc fingerprints an already-decoded document tree.
func FingerprintDoc(doc any) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("canonicalizing document: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
