package object

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

// HashBytes computes the raw SHA-256 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-256 of the envelope "type len\0content",
// mirroring Git's object hashing but with SHA-256.
func HashObject(objType Type, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha256.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// IsHash reports whether s is syntactically a valid object hash.
func IsHash(s string) bool {
	return hashPattern.MatchString(s)
}
