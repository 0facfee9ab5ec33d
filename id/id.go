// Package id generates the opaque identifiers used for jobs.
//
// An identifier is 5 cryptographically random bytes encoded with URL-safe
// base64 (no padding), e.g. "k3Rqx2c". Callers may supply their own IDs;
// this package only guarantees the generated form.
package id

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// rawLen is the number of random bytes in a generated identifier.
const rawLen = 5

// New generates a new random job identifier.
// It panics if the platform random source fails (programming environment
// error, not a runtime condition a caller can handle).
func New() string {
	b := make([]byte, rawLen)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("id: read random source: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
