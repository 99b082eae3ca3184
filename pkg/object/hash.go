package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashSize is the length in bytes of a raw object identifier.
const HashSize = sha1.Size

// HashObject computes the SHA-1 of the envelope "type len\0content". The
// framing is Git's, so identifiers match for equal objects.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", objType, len(data))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// ValidHash reports whether h is a 40-character lowercase hex identifier.
func ValidHash(h Hash) bool {
	if len(h) != hex.EncodedLen(HashSize) {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// Short returns the first 8 characters of h for display.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}
