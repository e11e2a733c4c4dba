// Package codec reversibly wraps a serialized collection in an opaque
// string keyed by the current principal. It is a deterrent against casual
// inspection of the on-disk blob and nothing more: base64 with a derived
// salt prefix is NOT encryption and carries no confidentiality claim.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// saltLen is the fixed prefix length. Decode strips this many bytes
// without verifying them against the caller's salt, which is what lets
// every logged-in principal read the shared records blob.
const saltLen = 10

// ErrMalformed is returned when an opaque blob cannot be decoded. Callers
// treat the collection as empty rather than failing.
var ErrMalformed = errors.New("codec: malformed blob")

func salt(principalEmail string) string {
	s := base64.StdEncoding.EncodeToString([]byte(principalEmail))
	if len(s) > saltLen {
		s = s[:saltLen]
	}
	return s
}

// Encode derives a salt from principalEmail, prepends it to plain and
// base64-encodes the result. Pure function.
func Encode(plain, principalEmail string) string {
	return base64.StdEncoding.EncodeToString([]byte(salt(principalEmail) + plain))
}

// Decode is the inverse of Encode. The salt prefix is discarded by length,
// not compared, so decoding with a different principal still yields the
// original text as long as the salts have equal length.
func Decode(opaque, principalEmail string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(opaque)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	n := len(salt(principalEmail))
	if len(raw) < n {
		return "", ErrMalformed
	}
	return string(raw[n:]), nil
}
